package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// RedditConfig configures the Reddit fetcher.
type RedditConfig struct {
	Subreddits []string
	Country    string
	Limit      int
	TimeFilter string // hour, day, week, month, year, all
	UserAgent  string
}

// RedditFetcher pulls top posts from food subreddits via Reddit's public
// JSON API.
type RedditFetcher struct {
	httpClient *http.Client
	baseURL    string
	cfg        RedditConfig
	log        zerolog.Logger
}

type redditPost struct {
	Title       string  `json:"title"`
	Permalink   string  `json:"permalink"`
	Score       float64 `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
	Over18      bool    `json:"over_18"`
	ID          string  `json:"id"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditFetcher creates a Reddit fetcher with sane defaults.
func NewRedditFetcher(cfg RedditConfig, log zerolog.Logger) *RedditFetcher {
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	if cfg.TimeFilter == "" {
		cfg.TimeFilter = "week"
	}
	if cfg.Country == "" {
		cfg.Country = "US"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "trendwatcher/1.0"
	}
	return &RedditFetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://www.reddit.com",
		cfg:        cfg,
		log:        log,
	}
}

// Name implements Fetcher.
func (f *RedditFetcher) Name() string { return "reddit" }

// Fetch returns the top posts of each configured subreddit as social-post
// records. A failing subreddit is logged and skipped; the rest proceed.
func (f *RedditFetcher) Fetch(ctx context.Context) ([]signal.Record, error) {
	var records []signal.Record
	fetchedAt := time.Now().UTC().Format(timestampLayout)

	for _, sub := range f.cfg.Subreddits {
		posts, err := f.topPosts(ctx, sub)
		if err != nil {
			f.log.Warn().Err(err).Str("subreddit", sub).Msg("reddit fetch failed")
			continue
		}

		for _, p := range posts {
			title := strings.TrimSpace(p.Title)
			if title == "" || p.Over18 {
				continue
			}
			records = append(records, signal.Record{
				Type:      signal.TypeRedditTrending,
				Country:   f.cfg.Country,
				Query:     title,
				Score:     signal.NewScore(p.Score),
				Seed:      "r/" + sub,
				FetchedAt: fetchedAt,
				Metadata: map[string]any{
					"post_id":      p.ID,
					"url":          "https://reddit.com" + p.Permalink,
					"num_comments": p.NumComments,
					"created_utc":  p.CreatedUTC,
				},
			})
		}
	}

	return records, nil
}

func (f *RedditFetcher) topPosts(ctx context.Context, subreddit string) ([]redditPost, error) {
	url := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=%s", f.baseURL, subreddit, f.cfg.Limit, f.cfg.TimeFilter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Reddit throttles default user agents aggressively.
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling reddit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding reddit response: %w", err)
	}

	posts := make([]redditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
