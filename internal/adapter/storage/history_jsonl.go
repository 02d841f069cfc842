package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// JSONLHistoryStore keeps weekly trend snapshots as one JSONL file per
// week under a history directory (trends_YYYY_wWW.jsonl). Files are
// written atomically via a temp file and rename, so readers of a completed
// week never observe a partial snapshot.
type JSONLHistoryStore struct {
	dir string
	log zerolog.Logger
}

// NewJSONLHistoryStore creates the store and its directory.
func NewJSONLHistoryStore(dir string, log zerolog.Logger) (*JSONLHistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	return &JSONLHistoryStore{dir: dir, log: log}, nil
}

func snapshotFileName(week string) string {
	return "trends_" + week + ".jsonl"
}

// Snapshot persists one row per trend for the given week. Re-running
// within the same week replaces that week's file atomically; distinct
// weeks live in distinct files and never collide.
func (s *JSONLHistoryStore) Snapshot(ctx context.Context, week string, trends []trend.Trend) error {
	tmp, err := os.CreateTemp(s.dir, snapshotFileName(week)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, t := range trends {
		row := trend.Snapshot{
			Week:           week,
			Label:          t.Label,
			Score:          t.Score,
			ScoreBreakdown: t.ScoreBreakdown,
			Countries:      t.Countries,
			RawCount:       t.RawCount,
			EntityType:     t.EntityType,
		}
		line, err := json.Marshal(row)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("marshaling snapshot row: %w", err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}

	final := filepath.Join(s.dir, snapshotFileName(week))
	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}

	s.log.Info().Str("week", week).Int("trends", len(trends)).Str("file", final).Msg("history snapshot saved")
	return nil
}

// LoadHistory returns all snapshot rows for a trend label across every
// week, sorted ascending by week id. A label with no history yields an
// empty slice, not an error.
func (s *JSONLHistoryStore) LoadHistory(ctx context.Context, label string) ([]trend.Snapshot, error) {
	var history []trend.Snapshot

	err := s.scanSnapshots(func(row trend.Snapshot) {
		if row.Label == label {
			history = append(history, row)
		}
	})
	if err != nil {
		return nil, err
	}

	sortByWeek(history)
	return history, nil
}

// LoadAllHistories returns every trend's ordered history in one scan.
func (s *JSONLHistoryStore) LoadAllHistories(ctx context.Context) (map[string][]trend.Snapshot, error) {
	histories := make(map[string][]trend.Snapshot)

	err := s.scanSnapshots(func(row trend.Snapshot) {
		if row.Label != "" {
			histories[row.Label] = append(histories[row.Label], row)
		}
	})
	if err != nil {
		return nil, err
	}

	for label := range histories {
		sortByWeek(histories[label])
	}
	return histories, nil
}

// scanSnapshots visits every parseable row of every snapshot file in
// lexical file order. Corrupt rows are skipped individually; a missing
// directory yields zero rows.
func (s *JSONLHistoryStore) scanSnapshots(visit func(trend.Snapshot)) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading history dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "trends_") && strings.HasSuffix(name, ".jsonl") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, name := range files {
		f, err := os.Open(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("skipping unreadable snapshot file")
			continue
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var row trend.Snapshot
			if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
				continue
			}
			visit(row)
		}
		f.Close()
	}

	return nil
}

func sortByWeek(history []trend.Snapshot) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Week < history[j].Week
	})
}
