package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

func TestRecordLogAppendLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "docs.jsonl")
	log, err := NewRecordLog(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecordLog: %v", err)
	}
	ctx := context.Background()

	batch1 := []signal.Record{
		{Type: signal.TypeGoogleTrendsRising, Country: "US", Query: "dubai chocolate", Score: signal.NewScore(100), Seed: "trending_searches", FetchedAt: "2025-08-01T00:00:00Z"},
	}
	batch2 := []signal.Record{
		{Type: signal.TypeRedditTrending, Country: "US", Query: "gochujang ramen", Score: signal.BreakoutSentinel(), Seed: "r/food", FetchedAt: "2025-08-02T00:00:00Z"},
	}

	if err := log.Append(ctx, batch1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(ctx, batch2); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := log.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].Query != "dubai chocolate" || records[1].Query != "gochujang ramen" {
		t.Errorf("unexpected order: %q, %q", records[0].Query, records[1].Query)
	}

	if v, ok := records[0].Score.Value(); !ok || v != 100 {
		t.Errorf("first score = %v (ok=%v), want 100", v, ok)
	}
	if v, ok := records[1].Score.Value(); !ok || v != signal.BreakoutScore {
		t.Errorf("breakout score = %v (ok=%v), want %v", v, ok, signal.BreakoutScore)
	}
}

func TestRecordLogMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	log, err := NewRecordLog(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecordLog: %v", err)
	}

	records, err := log.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if records != nil {
		t.Errorf("got %v, want nil for missing file", records)
	}
}

func TestRecordLogSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	content := `{"type":"google_trends_rising","query":"gochujang","score":50,"seed":"trending_searches","fetched_at":"2025-08-01T00:00:00Z"}
{broken
{"type":"reddit_trending","query":"burrata","score":"breakout","seed":"r/food","fetched_at":"2025-08-02T00:00:00Z"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	log, err := NewRecordLog(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecordLog: %v", err)
	}

	records, err := log.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if v, ok := records[1].Score.Value(); !ok || v != signal.BreakoutScore {
		t.Errorf("breakout string score = %v (ok=%v)", v, ok)
	}
}

func TestRecordLogTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	log, err := NewRecordLog(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecordLog: %v", err)
	}
	ctx := context.Background()

	if err := log.Append(ctx, []signal.Record{{Type: signal.TypeMenuDish, Query: "scamorza pizza"}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Truncate(ctx); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	records, err := log.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records after truncate, want 0", len(records))
	}
}
