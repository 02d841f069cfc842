package score

import (
	"testing"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

func TestBreadth(t *testing.T) {
	tests := []struct {
		name      string
		countries []string
		want      float64
	}{
		{"no countries", nil, 0.0},
		{"single lead market", []string{"US"}, 1.5},
		{"china counts as lead", []string{"CN"}, 1.5},
		{"single target market", []string{"NL"}, 1.0},
		{"two lead markets", []string{"US", "GB"}, 2.5},
		{"three lead markets", []string{"US", "GB", "KR"}, 3.5},
		{"five markets all lead", []string{"US", "GB", "KR", "JP", "CN"}, 4.0},
		{"capped at five", []string{"US", "GB", "KR", "NL", "DE"}, 5.0},
		{"lead plus one target", []string{"US", "NL"}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breadth(trend.Trend{Countries: tt.countries})
			if got != tt.want {
				t.Errorf("Breadth(%v) = %v, want %v", tt.countries, got, tt.want)
			}
		})
	}
}

func TestBreadthMonotonicInMarkets(t *testing.T) {
	markets := []string{"US", "GB", "KR", "JP", "NL", "DE", "FR"}
	prev := 0.0
	for i := 1; i <= len(markets); i++ {
		got := Breadth(trend.Trend{Countries: markets[:i]})
		if got < prev {
			t.Errorf("breadth dropped from %v to %v at %d markets", prev, got, i)
		}
		prev = got
	}
}
