package score

import (
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// Velocity scores week-over-week growth in raw mention count (0-5). With
// fewer than two historical snapshots there is nothing to compare, so the
// cold-start default is a neutral 2.5.
func Velocity(history []trend.Snapshot) float64 {
	if len(history) < 2 {
		return 2.5
	}

	current := history[len(history)-1].RawCount
	previous := history[len(history)-2].RawCount

	if previous == 0 {
		if current > 0 {
			return 4.0
		}
		return 0.0
	}

	growth := float64(current-previous) / float64(previous)

	switch {
	case growth > 0.5:
		return 5.0
	case growth > 0.3:
		return 4.0
	case growth > 0.1:
		return 3.0
	case growth > 0:
		return 2.0
	case growth > -0.1:
		return 1.0
	default:
		return 0.5
	}
}
