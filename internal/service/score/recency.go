package score

import (
	"time"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// Recency scores how recently the trend was first observed anywhere
// (0-5, newer is higher). Trends with no parseable first-seen timestamp
// score 0.
func Recency(t trend.Trend, now time.Time) float64 {
	var earliest time.Time
	for _, raw := range t.FirstSeen {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
	}

	if earliest.IsZero() {
		return 0.0
	}

	ageDays := int(now.Sub(earliest).Hours() / 24)

	switch {
	case ageDays <= 7:
		return 5.0
	case ageDays <= 14:
		return 4.0
	case ageDays <= 30:
		return 3.0
	case ageDays <= 60:
		return 2.0
	case ageDays <= 90:
		return 1.0
	default:
		return 0.5
	}
}
