package score

import (
	"regexp"
	"strings"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/extract"
)

var capitalizedWordRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

var specificityGenericTerms = []string{
	"recipe", "recipes", "food", "cooking", "dinner", "lunch",
}

// Specificity scores how specific the trend entity is (0-5). Entity
// metadata from extraction wins; otherwise a word-count heuristic over the
// label applies.
func Specificity(t trend.Trend) float64 {
	if t.EntityType != "" {
		switch t.EntityType {
		case extract.EntityBrandedProduct:
			return minF(5.0, 4.0+t.EntityConfidence)
		case extract.EntityEquipment:
			return 5.0
		case extract.EntityIngredientVariety:
			return minF(5.0, 3.5+t.EntityConfidence)
		case extract.EntityProductFormat:
			return minF(5.0, 3.0+t.EntityConfidence)
		}
	}

	label := strings.ToLower(t.Label)

	base := 1.0
	switch wordCount := len(strings.Fields(label)); {
	case wordCount >= 3:
		base = 3.0
	case wordCount == 2:
		base = 2.5
	}

	if capitalizedWordRe.MatchString(t.Label) {
		base += 1.0
	}

	for _, term := range specificityGenericTerms {
		if strings.Contains(label, term) {
			base -= 1.0
			break
		}
	}

	return maxF(0.0, minF(5.0, base))
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
