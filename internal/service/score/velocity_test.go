package score

import (
	"testing"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

func history(counts ...int) []trend.Snapshot {
	out := make([]trend.Snapshot, len(counts))
	for i, c := range counts {
		out[i] = trend.Snapshot{Week: "2025_w3" + string(rune('0'+i)), RawCount: c}
	}
	return out
}

func TestVelocity(t *testing.T) {
	tests := []struct {
		name    string
		history []trend.Snapshot
		want    float64
	}{
		{"no history", nil, 2.5},
		{"single snapshot cold start", history(10), 2.5},
		{"appeared from zero", history(0, 5), 4.0},
		{"stayed at zero", history(0, 0), 0.0},
		{"explosive growth", history(100, 160), 5.0},
		{"strong growth", history(100, 140), 4.0},
		{"steady growth", history(100, 120), 3.0},
		{"slight growth", history(100, 105), 2.0},
		{"roughly flat", history(100, 95), 1.0},
		{"declining", history(100, 50), 0.5},
		{"only last two weeks count", history(5, 100, 160), 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Velocity(tt.history); got != tt.want {
				t.Errorf("Velocity = %v, want %v", got, tt.want)
			}
		})
	}
}
