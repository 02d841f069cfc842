package storage

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// PostgresHistoryStore is the database-backed HistoryStore implementation,
// for deployments where the history must outlive a single host. Week
// semantics match the JSONL store: one logical snapshot per (week, trend),
// re-running a week replaces its rows.
type PostgresHistoryStore struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

// NewPostgresHistoryStore creates the store and ensures its schema.
func NewPostgresHistoryStore(ctx context.Context, db *pgxpool.Pool, log zerolog.Logger) (*PostgresHistoryStore, error) {
	s := &PostgresHistoryStore{db: db, log: log}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresHistoryStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trend_history (
			week            TEXT NOT NULL,
			trend           TEXT NOT NULL,
			score           DOUBLE PRECISION NOT NULL,
			score_breakdown JSONB NOT NULL DEFAULT '{}',
			countries       TEXT[] NOT NULL DEFAULT '{}',
			raw_count       INTEGER NOT NULL DEFAULT 0,
			entity_type     TEXT,
			PRIMARY KEY (week, trend)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensuring trend_history schema: %w", err)
	}
	return nil
}

// Snapshot persists one row per trend under the given week id.
func (s *PostgresHistoryStore) Snapshot(ctx context.Context, week string, trends []trend.Trend) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// A re-run within the same week replaces the week wholesale, like the
	// file-backed store's rename does.
	if _, err := tx.Exec(ctx, `DELETE FROM trend_history WHERE week = $1`, week); err != nil {
		return fmt.Errorf("clearing week %s: %w", week, err)
	}

	for _, t := range trends {
		breakdownJSON, err := json.Marshal(t.ScoreBreakdown)
		if err != nil {
			return fmt.Errorf("marshaling score breakdown: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO trend_history (week, trend, score, score_breakdown, countries, raw_count, entity_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, week, t.Label, t.Score, breakdownJSON, t.Countries, t.RawCount, nullable(t.EntityType))
		if err != nil {
			return fmt.Errorf("inserting snapshot row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	s.log.Info().Str("week", week).Int("trends", len(trends)).Msg("history snapshot saved")
	return nil
}

// LoadHistory returns all snapshot rows for a trend label, ascending by
// week id.
func (s *PostgresHistoryStore) LoadHistory(ctx context.Context, label string) ([]trend.Snapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT week, trend, score, score_breakdown, countries, raw_count, COALESCE(entity_type, '')
		FROM trend_history
		WHERE trend = $1
		ORDER BY week ASC
	`, label)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	return scanSnapshotRows(rows)
}

// LoadAllHistories returns every trend's ordered history grouped by label.
func (s *PostgresHistoryStore) LoadAllHistories(ctx context.Context) (map[string][]trend.Snapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT week, trend, score, score_breakdown, countries, raw_count, COALESCE(entity_type, '')
		FROM trend_history
		ORDER BY week ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying histories: %w", err)
	}
	defer rows.Close()

	all, err := scanSnapshotRows(rows)
	if err != nil {
		return nil, err
	}

	histories := make(map[string][]trend.Snapshot)
	for _, row := range all {
		histories[row.Label] = append(histories[row.Label], row)
	}
	return histories, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanSnapshotRows(rows pgxRows) ([]trend.Snapshot, error) {
	var out []trend.Snapshot
	for rows.Next() {
		var row trend.Snapshot
		var breakdownJSON []byte

		if err := rows.Scan(&row.Week, &row.Label, &row.Score, &breakdownJSON, &row.Countries, &row.RawCount, &row.EntityType); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &row.ScoreBreakdown); err != nil {
			// A corrupt breakdown should not sink the rest of the history.
			row.ScoreBreakdown = map[string]float64{}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}
	return out, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
