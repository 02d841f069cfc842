package extract

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Word characters, whitespace and hyphens survive; everything else is
	// dropped. \p{L}\p{N}_ covers the Unicode word class including
	// diacritics, so accented queries keep their letters.
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
)

// Normalize lowercases, collapses whitespace and strips characters outside
// the word/diacritic/hyphen allow-list. Safe to apply repeatedly.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = whitespaceRe.ReplaceAllString(t, " ")
	t = nonWordRe.ReplaceAllString(t, "")
	t = strings.Trim(t, "- ")
	return strings.TrimSpace(t)
}

// StripSoftStopwords removes filler words as " word " substrings, in a
// fixed order. This intentionally mirrors the historical behavior: the
// replacement is not token-boundary-safe, so stopwords embedded between
// spaces inside longer phrases are stripped wherever they occur.
func StripSoftStopwords(text string) string {
	for _, w := range softStopwords {
		text = strings.ReplaceAll(text, " "+w+" ", " ")
	}
	return text
}
