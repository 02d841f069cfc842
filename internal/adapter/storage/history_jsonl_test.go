package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

func newTestHistoryStore(t *testing.T) *JSONLHistoryStore {
	t.Helper()
	store, err := NewJSONLHistoryStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

func TestHistorySnapshotRoundTrip(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	trends := []trend.Trend{
		{Label: "dubai chocolate", Score: 19.5, Countries: []string{"US", "GB"}, RawCount: 42, EntityType: "branded_product"},
		{Label: "gochujang", Score: 14.0, Countries: []string{"KR"}, RawCount: 17},
	}

	if err := store.Snapshot(ctx, "2025_w35", trends); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	history, err := store.LoadHistory(ctx, "dubai chocolate")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d rows, want 1", len(history))
	}

	row := history[0]
	if row.Week != "2025_w35" || row.Label != "dubai chocolate" || row.Score != 19.5 || row.RawCount != 42 {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.EntityType != "branded_product" {
		t.Errorf("entity type = %q, want branded_product", row.EntityType)
	}
}

func TestHistoryWeeksSortedAscending(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	// Written out of order on purpose.
	weeks := []string{"2025_w36", "2025_w34", "2025_w35"}
	for i, week := range weeks {
		trends := []trend.Trend{{Label: "gochujang", RawCount: 10 * (i + 1)}}
		if err := store.Snapshot(ctx, week, trends); err != nil {
			t.Fatalf("Snapshot %s: %v", week, err)
		}
	}

	history, err := store.LoadHistory(ctx, "gochujang")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d rows, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Week < history[i-1].Week {
			t.Errorf("history out of order: %s before %s", history[i-1].Week, history[i].Week)
		}
	}
}

func TestHistorySameWeekReplaced(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	if err := store.Snapshot(ctx, "2025_w35", []trend.Trend{{Label: "gochujang", RawCount: 10}}); err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	if err := store.Snapshot(ctx, "2025_w35", []trend.Trend{{Label: "gochujang", RawCount: 25}}); err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}

	history, err := store.LoadHistory(ctx, "gochujang")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d rows, want 1 after same-week rewrite", len(history))
	}
	if history[0].RawCount != 25 {
		t.Errorf("raw count = %d, want 25 (latest write wins)", history[0].RawCount)
	}
}

func TestHistoryUnknownLabelEmpty(t *testing.T) {
	store := newTestHistoryStore(t)

	history, err := store.LoadHistory(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d rows for unknown label, want 0", len(history))
	}
}

func TestHistorySkipsCorruptRows(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONLHistoryStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	content := `{"week":"2025_w35","trend":"gochujang","score":14,"raw_count":10}
this line is not json
{"week":"2025_w35","trend":"burrata","score":9,"raw_count":4}
`
	if err := os.WriteFile(filepath.Join(dir, "trends_2025_w35.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	histories, err := store.LoadAllHistories(context.Background())
	if err != nil {
		t.Fatalf("LoadAllHistories: %v", err)
	}
	if len(histories) != 2 {
		t.Errorf("got %d labels, want 2: %v", len(histories), histories)
	}
	if len(histories["gochujang"]) != 1 || histories["gochujang"][0].RawCount != 10 {
		t.Errorf("gochujang history = %+v", histories["gochujang"])
	}
}

func TestLoadAllHistoriesGroupsByLabel(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	for _, week := range []string{"2025_w34", "2025_w35"} {
		trends := []trend.Trend{
			{Label: "gochujang", RawCount: 10},
			{Label: "burrata", RawCount: 5},
		}
		if err := store.Snapshot(ctx, week, trends); err != nil {
			t.Fatalf("Snapshot %s: %v", week, err)
		}
	}

	histories, err := store.LoadAllHistories(ctx)
	if err != nil {
		t.Fatalf("LoadAllHistories: %v", err)
	}
	if len(histories) != 2 {
		t.Fatalf("got %d labels, want 2", len(histories))
	}
	if len(histories["gochujang"]) != 2 || len(histories["burrata"]) != 2 {
		t.Errorf("unexpected history lengths: %v", histories)
	}
}
