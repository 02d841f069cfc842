package ingest

import (
	"context"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// Fetcher pulls normalized signal records from one external source. A
// fetcher failing wholesale is logged and skipped by the pipeline; the
// extraction core never depends on a fetcher synchronously.
type Fetcher interface {
	// Name identifies the fetcher in logs and source configuration.
	Name() string

	// Fetch returns the source's current batch of records.
	Fetch(ctx context.Context) ([]signal.Record, error)
}

// timestampLayout is the wire format for fetched_at. Every fetcher emits
// the same UTC layout so that the cluster engine's lexical first-seen
// comparison stays correct.
const timestampLayout = "2006-01-02T15:04:05Z"
