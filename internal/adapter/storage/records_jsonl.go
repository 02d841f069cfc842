package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// RecordLog is the append-only JSONL log of raw signal records produced by
// the ingest fetchers and consumed by the cluster engine.
type RecordLog struct {
	path string
	log  zerolog.Logger
}

// NewRecordLog creates the log under the given path, making parent
// directories as needed.
func NewRecordLog(path string, log zerolog.Logger) (*RecordLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating records dir: %w", err)
	}
	return &RecordLog{path: path, log: log}, nil
}

// Append writes records to the end of the log, one JSON object per line.
func (l *RecordLog) Append(ctx context.Context, records []signal.Record) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening record log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range records {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("appending records: %w", err)
	}

	return nil
}

// Load reads every parseable record from the log. Malformed lines are
// skipped silently; a missing log yields an empty slice so clustering can
// proceed on zero records.
func (l *RecordLog) Load(ctx context.Context) ([]signal.Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening record log: %w", err)
	}
	defer f.Close()

	var records []signal.Record
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var r signal.Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading record log: %w", err)
	}

	if skipped > 0 {
		l.log.Warn().Int("skipped", skipped).Msg("malformed record lines skipped")
	}
	return records, nil
}

// Truncate clears the log, typically after a completed extraction run has
// consumed it.
func (l *RecordLog) Truncate(ctx context.Context) error {
	if err := os.Truncate(l.path, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("truncating record log: %w", err)
	}
	return nil
}
