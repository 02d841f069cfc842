package ingest

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// Feed names one RSS source.
type Feed struct {
	Name string
	URL  string
}

// BlogConfig configures the food blog fetcher.
type BlogConfig struct {
	Feeds        []Feed
	Country      string
	MaxAge       time.Duration
	DefaultScore float64
}

// BlogFetcher pulls recent article titles from food blog RSS feeds.
type BlogFetcher struct {
	parser *gofeed.Parser
	cfg    BlogConfig
	log    zerolog.Logger
}

// NewBlogFetcher creates the fetcher with sane defaults.
func NewBlogFetcher(cfg BlogConfig, log zerolog.Logger) *BlogFetcher {
	if cfg.Country == "" {
		cfg.Country = "US"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30 * 24 * time.Hour
	}
	if cfg.DefaultScore <= 0 {
		// Blog posts carry no vote count; a fixed score keeps them
		// comparable to upvote-based sources.
		cfg.DefaultScore = 100
	}
	return &BlogFetcher{parser: gofeed.NewParser(), cfg: cfg, log: log}
}

// Name implements Fetcher.
func (f *BlogFetcher) Name() string { return "food_blogs" }

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Fetch returns recent post titles across all configured feeds. A feed
// that fails to parse is logged and skipped.
func (f *BlogFetcher) Fetch(ctx context.Context) ([]signal.Record, error) {
	var records []signal.Record
	now := time.Now().UTC()
	fetchedAt := now.Format(timestampLayout)

	for _, feedCfg := range f.cfg.Feeds {
		if feedCfg.URL == "" {
			f.log.Warn().Str("feed", feedCfg.Name).Msg("feed has no url, skipping")
			continue
		}

		feed, err := f.parser.ParseURLWithContext(feedCfg.URL, ctx)
		if err != nil {
			f.log.Warn().Err(err).Str("feed", feedCfg.Name).Msg("feed parse failed")
			continue
		}

		for _, item := range feed.Items {
			published := item.PublishedParsed
			if published == nil {
				published = item.UpdatedParsed
			}
			if published != nil && now.Sub(*published) > f.cfg.MaxAge {
				continue
			}

			title := cleanTitle(item.Title)
			if title == "" {
				continue
			}

			summary := item.Description
			if len(summary) > 200 {
				summary = summary[:200]
			}

			records = append(records, signal.Record{
				Type:      signal.TypeFoodBlogPost,
				Country:   f.cfg.Country,
				Query:     title,
				Score:     signal.NewScore(f.cfg.DefaultScore),
				Seed:      feedCfg.Name,
				FetchedAt: fetchedAt,
				Metadata: map[string]any{
					"url":       item.Link,
					"published": item.Published,
					"summary":   summary,
				},
			})
		}
	}

	return records, nil
}

func cleanTitle(title string) string {
	clean := htmlTagRe.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(clean), " ")
}
