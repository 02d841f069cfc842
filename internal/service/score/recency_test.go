package score

import (
	"testing"
	"time"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

func TestRecency(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	ts := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	}

	tests := []struct {
		name      string
		firstSeen map[string]string
		want      float64
	}{
		{"this week", map[string]string{"US": ts(5)}, 5.0},
		{"two weeks", map[string]string{"US": ts(10)}, 4.0},
		{"this month", map[string]string{"US": ts(20)}, 3.0},
		{"two months", map[string]string{"US": ts(45)}, 2.0},
		{"three months", map[string]string{"US": ts(80)}, 1.0},
		{"stale", map[string]string{"US": ts(200)}, 0.5},
		{"earliest across markets wins", map[string]string{"US": ts(5), "GB": ts(45)}, 2.0},
		{"unparseable timestamps", map[string]string{"US": "yesterday"}, 0.0},
		{"no first seen", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recency(trend.Trend{FirstSeen: tt.firstSeen}, now)
			if got != tt.want {
				t.Errorf("Recency = %v, want %v", got, tt.want)
			}
		})
	}
}
