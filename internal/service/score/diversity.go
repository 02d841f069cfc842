package score

import (
	"strings"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// Diversity scores cross-source confirmation (0-5). Each seed is binned
// into a source-type bucket by substring match; more distinct buckets mean
// independent confirmation of the same signal.
func Diversity(t trend.Trend) float64 {
	if len(t.Seeds) == 0 {
		return 0.0
	}

	buckets := make(map[string]struct{})
	for _, seed := range t.Seeds {
		buckets[seedBucket(seed)] = struct{}{}
	}

	switch n := len(buckets); {
	case n >= 4:
		return 5.0
	case n == 3:
		return 4.0
	case n == 2:
		return 3.0
	default:
		// Single bucket: several seeds of the same kind still count for
		// something.
		if len(t.Seeds) >= 3 {
			return 2.0
		}
		return 1.0
	}
}

func seedBucket(seed string) string {
	s := strings.ToLower(seed)
	switch {
	case strings.Contains(s, "google_trends") || strings.Contains(s, "trend"):
		return "search"
	case strings.Contains(s, "menu") || strings.Contains(s, "resy") || strings.Contains(s, "thefork"):
		return "menu"
	case strings.Contains(s, "blog") || strings.Contains(s, "food_blog"):
		return "blog"
	case strings.HasPrefix(s, "r/") || strings.Contains(s, "reddit") || strings.Contains(s, "social"):
		return "social"
	case strings.Contains(s, "competitor") || strings.Contains(s, "retail"):
		return "retail"
	default:
		return "other"
	}
}
