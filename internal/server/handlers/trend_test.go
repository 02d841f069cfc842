// internal/server/handlers/trend_test.go

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

type stubTrendSource struct {
	trends []trend.Trend
}

func (s stubTrendSource) Load(ctx context.Context) ([]trend.Trend, error) {
	return s.trends, nil
}

type stubHistorySource struct {
	histories map[string][]trend.Snapshot
}

func (s stubHistorySource) LoadHistory(ctx context.Context, label string) ([]trend.Snapshot, error) {
	return s.histories[label], nil
}

func testHandler() *TrendHandler {
	return NewTrendHandler(
		stubTrendSource{trends: []trend.Trend{
			{Label: "dubai chocolate", Score: 21.0, EntityType: "branded_product"},
			{Label: "gochujang", Score: 14.0, EntityType: "ingredient_variety"},
			{Label: "burrata", Score: 9.0, EntityType: "ingredient_variety"},
		}},
		stubHistorySource{histories: map[string][]trend.Snapshot{
			"gochujang": {
				{Week: "2025_w34", Label: "gochujang", RawCount: 10},
				{Week: "2025_w35", Label: "gochujang", RawCount: 16},
			},
		}},
	)
}

func decodeTrends(t *testing.T, rr *httptest.ResponseRecorder) []trend.Trend {
	t.Helper()
	var out []trend.Trend
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v\n%s", err, rr.Body.String())
	}
	return out
}

func TestGetTrends(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandler().GetTrends(rr, httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := decodeTrends(t, rr); len(got) != 3 {
		t.Errorf("got %d trends, want 3", len(got))
	}
}

func TestGetTrendsMinScore(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandler().GetTrends(rr, httptest.NewRequest(http.MethodGet, "/api/v1/trends?min_score=12", nil))

	got := decodeTrends(t, rr)
	if len(got) != 2 {
		t.Fatalf("got %d trends, want 2", len(got))
	}
	for _, tr := range got {
		if tr.Score < 12 {
			t.Errorf("trend %q below min_score: %v", tr.Label, tr.Score)
		}
	}
}

func TestGetTrendsEntityTypeAndLimit(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandler().GetTrends(rr, httptest.NewRequest(http.MethodGet, "/api/v1/trends?entity_type=ingredient_variety&limit=1", nil))

	got := decodeTrends(t, rr)
	if len(got) != 1 {
		t.Fatalf("got %d trends, want 1", len(got))
	}
	if got[0].Label != "gochujang" {
		t.Errorf("trend = %q, want gochujang", got[0].Label)
	}
}

func TestGetTrendHistory(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandler().GetTrendHistory(rr, httptest.NewRequest(http.MethodGet, "/api/v1/trends/history?label=gochujang", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var history []trend.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &history); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(history) != 2 || history[1].RawCount != 16 {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestGetTrendHistoryMissingLabel(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandler().GetTrendHistory(rr, httptest.NewRequest(http.MethodGet, "/api/v1/trends/history", nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
