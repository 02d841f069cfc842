package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// GoogleTrendsConfig configures the rising-searches fetcher.
type GoogleTrendsConfig struct {
	Countries []string
}

// GoogleTrendsFetcher pulls daily rising searches per market from the
// trends daily-trends endpoint.
type GoogleTrendsFetcher struct {
	httpClient *http.Client
	baseURL    string
	cfg        GoogleTrendsConfig
	log        zerolog.Logger
}

// NewGoogleTrendsFetcher creates the fetcher.
func NewGoogleTrendsFetcher(cfg GoogleTrendsConfig, log zerolog.Logger) *GoogleTrendsFetcher {
	return &GoogleTrendsFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://trends.google.com/trends/api/dailytrends",
		cfg:        cfg,
		log:        log,
	}
}

// Name implements Fetcher.
func (f *GoogleTrendsFetcher) Name() string { return "google_trends" }

type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
				FormattedTraffic string `json:"formattedTraffic"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// Fetch returns rising searches for every configured market. A failing
// market is logged and skipped.
func (f *GoogleTrendsFetcher) Fetch(ctx context.Context) ([]signal.Record, error) {
	var records []signal.Record
	fetchedAt := time.Now().UTC().Format(timestampLayout)

	for _, country := range f.cfg.Countries {
		cc := strings.ToUpper(country)
		rows, err := f.risingSearches(ctx, cc)
		if err != nil {
			f.log.Warn().Err(err).Str("country", cc).Msg("google trends fetch failed")
			continue
		}

		for _, row := range rows {
			row.FetchedAt = fetchedAt
			records = append(records, row)
		}
	}

	return records, nil
}

func (f *GoogleTrendsFetcher) risingSearches(ctx context.Context, country string) ([]signal.Record, error) {
	url := fmt.Sprintf("%s?hl=en-US&tz=0&geo=%s", f.baseURL, country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling trends endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading trends response: %w", err)
	}

	// The endpoint prefixes its JSON with an anti-hijacking marker.
	payload := strings.TrimPrefix(string(body), ")]}',")

	var parsed dailyTrendsResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("decoding trends response: %w", err)
	}

	var records []signal.Record
	for _, day := range parsed.Default.TrendingSearchesDays {
		for _, search := range day.TrendingSearches {
			query := strings.TrimSpace(search.Title.Query)
			if query == "" {
				continue
			}
			records = append(records, signal.Record{
				Type:    signal.TypeGoogleTrendsRising,
				Country: country,
				Query:   query,
				Score:   trafficScore(search.FormattedTraffic),
				Seed:    "trending_searches",
			})
		}
	}
	return records, nil
}

// trafficScore converts formatted traffic strings like "200K+" or "1M+"
// into a numeric score. Sources that give no magnitude fall back to the
// breakout sentinel.
func trafficScore(formatted string) signal.Score {
	s := strings.TrimSpace(strings.TrimSuffix(formatted, "+"))
	if s == "" {
		return signal.BreakoutSentinel()
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "K")
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return signal.BreakoutSentinel()
	}
	return signal.NewScore(v * multiplier)
}
