package score

import (
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// The breadth component counts CN among lead markets: China originates
// plenty of food trends even though we do not track lead/lag timing there.
var breadthLeadMarkets = map[string]struct{}{
	"US": {}, "GB": {}, "KR": {}, "JP": {}, "CN": {},
}

var breadthTargetMarkets = map[string]struct{}{
	"NL": {}, "DE": {}, "FR": {},
}

// Breadth scores geographic spread (0-5): market count, lead-market
// presence and target-market presence, capped at 5.
func Breadth(t trend.Trend) float64 {
	if len(t.Countries) == 0 {
		return 0.0
	}

	score := 0.0

	switch marketCount := len(t.Countries); {
	case marketCount >= 5:
		score += 2.0
	case marketCount >= 3:
		score += 1.5
	case marketCount >= 2:
		score += 1.0
	default:
		score += 0.5
	}

	leadCount, targetCount := 0, 0
	for _, cc := range t.Countries {
		if _, ok := breadthLeadMarkets[cc]; ok {
			leadCount++
		}
		if _, ok := breadthTargetMarkets[cc]; ok {
			targetCount++
		}
	}

	switch {
	case leadCount >= 3:
		score += 2.0
	case leadCount >= 2:
		score += 1.5
	case leadCount >= 1:
		score += 1.0
	}

	switch {
	case targetCount >= 2:
		score += 1.0
	case targetCount >= 1:
		score += 0.5
	}

	if score > 5.0 {
		return 5.0
	}
	return score
}
