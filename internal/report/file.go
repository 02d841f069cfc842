package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// FileReporter writes the weekly markdown report next to the trend export.
type FileReporter struct {
	path string
	log  zerolog.Logger
}

// NewFileReporter creates the reporter.
func NewFileReporter(path string, log zerolog.Logger) *FileReporter {
	return &FileReporter{path: path, log: log}
}

// Deliver implements the pipeline reporter contract.
func (r *FileReporter) Deliver(_ context.Context, trends []trend.Trend, generatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	if err := os.WriteFile(r.path, []byte(Markdown(trends, generatedAt)), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	r.log.Info().Str("path", r.path).Msg("report written")
	return nil
}
