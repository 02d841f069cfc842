package score

import (
	"testing"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

func TestDiversity(t *testing.T) {
	tests := []struct {
		name  string
		seeds []string
		want  float64
	}{
		{"no seeds", nil, 0.0},
		{"single source", []string{"trending_searches"}, 1.0},
		{"same bucket twice", []string{"r/food", "r/recipes"}, 1.0},
		{"same bucket three seeds", []string{"r/food", "r/recipes", "r/cooking"}, 2.0},
		{"two buckets", []string{"trending_searches", "r/food"}, 3.0},
		{"three buckets", []string{"trending_searches", "r/food", "blog_bonappetit"}, 4.0},
		{"four buckets", []string{"trending_searches", "r/food", "blog_bonappetit", "menu_resy_nyc"}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diversity(trend.Trend{Seeds: tt.seeds}); got != tt.want {
				t.Errorf("Diversity(%v) = %v, want %v", tt.seeds, got, tt.want)
			}
		})
	}
}
