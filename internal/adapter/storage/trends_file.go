package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// TrendsFile is the latest scored trend list, written once per run and
// read back by reporting and the HTTP API. Replaced atomically so
// concurrent readers always see a complete artifact.
type TrendsFile struct {
	path string
}

// NewTrendsFile creates the artifact handle and its parent directory.
func NewTrendsFile(path string) (*TrendsFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trends dir: %w", err)
	}
	return &TrendsFile{path: path}, nil
}

// Write replaces the artifact with the given trend list.
func (f *TrendsFile) Write(ctx context.Context, trends []trend.Trend) error {
	data, err := json.MarshalIndent(trends, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling trends: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating trends temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing trends: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing trends temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("publishing trends: %w", err)
	}
	return nil
}

// Load reads the latest trend list. A missing artifact yields an empty
// list: no completed run is a valid, reportable state.
func (f *TrendsFile) Load(ctx context.Context) ([]trend.Trend, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading trends file: %w", err)
	}

	var trends []trend.Trend
	if err := json.Unmarshal(data, &trends); err != nil {
		return nil, fmt.Errorf("parsing trends file: %w", err)
	}
	return trends, nil
}
