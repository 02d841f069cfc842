package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/adapter/storage"
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/extract"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/ingest"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/score"
)

type stubFetcher struct {
	name    string
	records []signal.Record
	err     error
}

func (f stubFetcher) Name() string { return f.name }

func (f stubFetcher) Fetch(ctx context.Context) ([]signal.Record, error) {
	return f.records, f.err
}

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeTrend(ctx context.Context, t trend.Trend) (*trend.Analysis, error) {
	if t.Label == "gochujang" {
		return nil, errors.New("oracle unavailable")
	}
	return &trend.Analysis{ProductFit: "strong"}, nil
}

type stubMatcher struct{}

func (stubMatcher) MatchTrend(ctx context.Context, t trend.Trend) ([]trend.ProductMatch, error) {
	if t.Label == "gochujang" {
		return nil, errors.New("catalog unavailable")
	}
	return []trend.ProductMatch{
		{ProductID: "12345", ProductName: "Chocolate Kataifi Bar", Confidence: 90},
	}, nil
}

type recordingReporter struct {
	delivered []trend.Trend
}

func (r *recordingReporter) Deliver(ctx context.Context, trends []trend.Trend, generatedAt time.Time) error {
	r.delivered = trends
	return nil
}

func newTestRunner(t *testing.T, fetchers []stubFetcher, analyzer trend.Analyzer, reporter *recordingReporter) (*Runner, *storage.TrendsFile, trend.HistoryStore) {
	t.Helper()
	dir := t.TempDir()
	log := zerolog.Nop()

	recordLog, err := storage.NewRecordLog(filepath.Join(dir, "raw", "docs.jsonl"), log)
	if err != nil {
		t.Fatalf("record log: %v", err)
	}
	trendsFile, err := storage.NewTrendsFile(filepath.Join(dir, "processed", "trends.json"))
	if err != nil {
		t.Fatalf("trends file: %v", err)
	}
	history, err := storage.NewJSONLHistoryStore(filepath.Join(dir, "history"), log)
	if err != nil {
		t.Fatalf("history store: %v", err)
	}

	var reporters []Reporter
	if reporter != nil {
		reporters = append(reporters, reporter)
	}

	fetcherSlice := make([]ingest.Fetcher, len(fetchers))
	for i := range fetchers {
		fetcherSlice[i] = fetchers[i]
	}

	runner := NewRunner(
		fetcherSlice,
		recordLog,
		extract.NewEngine(extract.EngineConfig{}, log),
		score.NewTrendScorer(log),
		trendsFile,
		history,
		analyzer,
		reporters,
		nil,
		RunnerConfig{AnalysisTopN: 5},
		log,
	)
	runner.Now = func() time.Time {
		return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	}
	return runner, trendsFile, history
}

func TestRunOnce(t *testing.T) {
	fetchers := []stubFetcher{
		{name: "search", records: []signal.Record{
			{Type: signal.TypeGoogleTrendsRising, Country: "US", Query: "dubai chocolate", Score: signal.NewScore(100), Seed: "trending_searches", FetchedAt: "2025-08-28T00:00:00Z"},
			{Type: signal.TypeGoogleTrendsRising, Country: "GB", Query: "dubai chocolate", Score: signal.NewScore(80), Seed: "trending_searches", FetchedAt: "2025-08-29T00:00:00Z"},
		}},
		{name: "social", records: []signal.Record{
			{Type: signal.TypeRedditTrending, Country: "US", Query: "gochujang ramen", Score: signal.NewScore(300), Seed: "r/food", FetchedAt: "2025-08-30T00:00:00Z"},
		}},
		{name: "broken", err: errors.New("source down")},
	}

	reporter := &recordingReporter{}
	runner, trendsFile, history := newTestRunner(t, fetchers, stubAnalyzer{}, reporter)

	var handled []string
	runner.RegisterTrendHandler(func(tr trend.Trend) error {
		handled = append(handled, tr.Label)
		return nil
	})

	ctx := context.Background()
	trends, err := runner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(trends) != 2 {
		t.Fatalf("got %d trends, want 2: %+v", len(trends), trends)
	}

	labels := map[string]bool{}
	for _, tr := range trends {
		labels[tr.Label] = true
		if tr.ScoreBreakdown == nil {
			t.Errorf("trend %q missing score breakdown", tr.Label)
		}
	}
	if !labels["dubai chocolate"] || !labels["gochujang"] {
		t.Errorf("unexpected labels: %v", labels)
	}

	// The written artifact matches the returned batch.
	written, err := trendsFile.Load(ctx)
	if err != nil {
		t.Fatalf("loading trends file: %v", err)
	}
	if len(written) != 2 {
		t.Errorf("trends file has %d trends, want 2", len(written))
	}

	// A snapshot exists under the run's week id.
	histories, err := history.LoadAllHistories(ctx)
	if err != nil {
		t.Fatalf("loading histories: %v", err)
	}
	rows := histories["dubai chocolate"]
	if len(rows) != 1 || rows[0].Week != "2025_w35" {
		t.Errorf("unexpected history rows: %+v", rows)
	}

	// Per-trend analysis failure is recorded, not fatal.
	for _, tr := range trends {
		if tr.Analysis == nil {
			t.Errorf("trend %q missing analysis", tr.Label)
			continue
		}
		if tr.Label == "gochujang" && tr.Analysis.Error == "" {
			t.Error("gochujang should carry the analysis error")
		}
		if tr.Label == "dubai chocolate" && tr.Analysis.ProductFit != "strong" {
			t.Errorf("dubai chocolate analysis = %+v", tr.Analysis)
		}
	}

	if len(handled) != 2 {
		t.Errorf("handlers called %d times, want 2", len(handled))
	}
	if len(reporter.delivered) != 2 {
		t.Errorf("reporter got %d trends, want 2", len(reporter.delivered))
	}
}

func TestRunOnceCatalogMatching(t *testing.T) {
	fetchers := []stubFetcher{
		{name: "search", records: []signal.Record{
			{Type: signal.TypeGoogleTrendsRising, Country: "US", Query: "dubai chocolate", Score: signal.NewScore(100), Seed: "trending_searches", FetchedAt: "2025-08-28T00:00:00Z"},
			{Type: signal.TypeRedditTrending, Country: "US", Query: "gochujang ramen", Score: signal.NewScore(300), Seed: "r/food", FetchedAt: "2025-08-30T00:00:00Z"},
		}},
	}

	runner, _, _ := newTestRunner(t, fetchers, nil, nil)
	runner.SetMatcher(stubMatcher{})

	trends, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("got %d trends, want 2: %+v", len(trends), trends)
	}

	for _, tr := range trends {
		switch tr.Label {
		case "dubai chocolate":
			if len(tr.ProductMatches) != 1 || tr.ProductMatches[0].ProductID != "12345" {
				t.Errorf("dubai chocolate matches = %+v", tr.ProductMatches)
			}
		case "gochujang":
			// Per-trend matching failure is recorded, not fatal.
			if tr.MatchingError == "" {
				t.Error("gochujang should carry the matching error")
			}
			if len(tr.ProductMatches) != 0 {
				t.Errorf("failed match should attach no products: %+v", tr.ProductMatches)
			}
		default:
			t.Errorf("unexpected label %q", tr.Label)
		}
	}
}

func TestRunOnceSecondRunSeesHistory(t *testing.T) {
	fetchers := []stubFetcher{
		{name: "search", records: []signal.Record{
			{Type: signal.TypeGoogleTrendsRising, Country: "US", Query: "gochujang sauce", Score: signal.NewScore(100), Seed: "trending_searches", FetchedAt: "2025-08-28T00:00:00Z"},
		}},
	}

	runner, _, history := newTestRunner(t, fetchers, nil, nil)

	ctx := context.Background()
	if _, err := runner.RunOnce(ctx); err != nil {
		t.Fatalf("first RunOnce: %v", err)
	}

	// Next week: the raw log now has two copies of the record, and the
	// second snapshot lands in a new file.
	runner.Now = func() time.Time {
		return time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)
	}
	if _, err := runner.RunOnce(ctx); err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}

	rows, err := history.LoadHistory(ctx, "gochujang")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d history rows, want 2: %+v", len(rows), rows)
	}
	if rows[0].Week != "2025_w35" || rows[1].Week != "2025_w36" {
		t.Errorf("weeks = %s, %s, want 2025_w35 then 2025_w36", rows[0].Week, rows[1].Week)
	}
	if rows[1].RawCount <= rows[0].RawCount {
		t.Errorf("second week raw count %d should exceed first %d", rows[1].RawCount, rows[0].RawCount)
	}
}
