package trend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a trend label has no recorded history.
var ErrNotFound = errors.New("not found")

// HistoryStore persists append-only weekly snapshots of scored trends.
// Snapshots for distinct weeks never collide; a completed week's file is
// immutable to readers while the next week is being written.
type HistoryStore interface {
	// Snapshot persists one row per scored trend under the given week id.
	Snapshot(ctx context.Context, week string, trends []Trend) error

	// LoadHistory returns all snapshot rows for a trend label across all
	// weeks, sorted ascending by week id.
	LoadHistory(ctx context.Context, label string) ([]Snapshot, error)

	// LoadAllHistories returns every trend's ordered history in one pass,
	// for batch velocity scoring without repeated full scans.
	LoadAllHistories(ctx context.Context) (map[string][]Snapshot, error)
}

// Analyzer is the opaque LLM classification oracle consumed optionally
// after scoring. Implementations must not fail the batch on a single
// trend's error.
type Analyzer interface {
	AnalyzeTrend(ctx context.Context, t Trend) (*Analysis, error)
}

// Matcher maps a trend onto concrete catalog products. Like the analyzer
// it is consulted optionally after scoring and must not fail the batch on
// a single trend's error.
type Matcher interface {
	MatchTrend(ctx context.Context, t Trend) ([]ProductMatch, error)
}

// WeekID formats a time as a YYYY_wWW history week identifier, using
// Sunday-first week-of-year numbering.
func WeekID(t time.Time) string {
	week := (t.YearDay() + 6 - int(t.Weekday())) / 7
	return fmt.Sprintf("%d_w%02d", t.Year(), week)
}
