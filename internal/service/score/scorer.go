package score

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// TrendScorer combines the five independent components into a single 0-25
// ranking score per trend.
type TrendScorer struct {
	log zerolog.Logger

	// Now is the clock used for recency; swapped out in tests.
	Now func() time.Time
}

// NewTrendScorer creates a trend scorer.
func NewTrendScorer(log zerolog.Logger) *TrendScorer {
	return &TrendScorer{log: log, Now: time.Now}
}

// Score computes the five components for one trend and returns the total
// with its breakdown, each rounded to 2 decimals. The total is the exact
// sum of the rounded components.
func (s *TrendScorer) Score(t trend.Trend, history []trend.Snapshot) (float64, map[string]float64) {
	breakdown := map[string]float64{
		"recency":     round2(Recency(t, s.Now())),
		"breadth":     round2(Breadth(t)),
		"velocity":    round2(Velocity(history)),
		"specificity": round2(Specificity(t)),
		"diversity":   round2(Diversity(t)),
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}

	return round2(total), breakdown
}

// ScoreBatch scores every trend against its history (looked up by exact
// label) and re-sorts the batch descending by total score.
func (s *TrendScorer) ScoreBatch(trends []trend.Trend, histories map[string][]trend.Snapshot) []trend.Trend {
	for i := range trends {
		total, breakdown := s.Score(trends[i], histories[trends[i].Label])
		trends[i].Score = total
		trends[i].ScoreBreakdown = breakdown
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Score > trends[j].Score
	})

	s.log.Debug().Int("trends", len(trends)).Msg("batch scored")
	return trends
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
