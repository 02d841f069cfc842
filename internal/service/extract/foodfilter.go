package extract

import (
	"strings"
	"unicode/utf8"
)

// FoodIntentScore is a small additive model over a query:
//
//	-3 non-food brand term present
//	-3 local/venue intent detected
//	+2 recipe keyword (any supported language)
//	+2 curated food hint
//	+1 pantry/form-factor term
func FoodIntentScore(query string) int {
	score := 0
	ql := strings.ToLower(query)

	for _, v := range nonfoodVeto {
		if strings.Contains(ql, v) {
			score -= 3
			break
		}
	}

	if localIntentRe.MatchString(ql) {
		score -= 3
	}

	if recipeRe.MatchString(ql) {
		score += 2
	}

	for _, h := range foodHints {
		if strings.Contains(ql, h) {
			score += 2
			break
		}
	}

	for _, p := range pantryTerms {
		if strings.Contains(ql, p) {
			score += 1
			break
		}
	}

	return score
}

// IsFoody decides whether a query belongs on the assortment watchlist.
// Local intent and non-food brands are hard vetoes regardless of score:
// recipes are welcome, "best ramen near me" is not.
func IsFoody(query string) bool {
	if utf8.RuneCountInString(query) < 3 {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(query))

	if localIntentRe.MatchString(q) {
		return false
	}

	for _, v := range nonfoodVeto {
		if strings.Contains(q, v) {
			return false
		}
	}

	return FoodIntentScore(q) >= 2
}
