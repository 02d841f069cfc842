package signal

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Source type values accepted by the extraction pipeline.
const (
	TypeGoogleTrendsRising = "google_trends_rising"
	TypeRedditTrending     = "reddit_trending"
	TypeFoodBlogPost       = "food_blog_post"
	TypeMenuDish           = "menu_dish"
)

// BreakoutScore is the numeric value assigned to the "breakout" sentinel,
// used by sources that flag exceptional growth without a magnitude.
const BreakoutScore = 150

// Score is a source-defined strength signal. On the wire it is either a
// number or the string sentinel "breakout"; anything else is kept verbatim
// and reported as unparseable.
type Score struct {
	raw string
}

// NewScore builds a numeric score.
func NewScore(v float64) Score {
	return Score{raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// BreakoutSentinel builds the breakout sentinel score.
func BreakoutSentinel() Score {
	return Score{raw: "breakout"}
}

// Value returns the numeric value of the score and whether it could be
// parsed. The "breakout" sentinel maps to BreakoutScore.
func (s Score) Value() (float64, bool) {
	if strings.EqualFold(strings.TrimSpace(s.raw), "breakout") {
		return BreakoutScore, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s.raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts numbers, numeric strings and the breakout sentinel.
func (s *Score) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.raw = str
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		s.raw = strconv.FormatFloat(num, 'f', -1, 64)
		return nil
	}
	// Keep the raw token so the record still counts toward breadth and
	// diversity aggregates even when the score itself is unusable.
	s.raw = strings.Trim(string(data), `"`)
	return nil
}

// MarshalJSON writes numeric scores as numbers and sentinels as strings.
func (s Score) MarshalJSON() ([]byte, error) {
	if v, err := strconv.ParseFloat(s.raw, 64); err == nil {
		return json.Marshal(v)
	}
	return json.Marshal(s.raw)
}

// Record is one observed mention of a query, dish or post title, produced
// by an ingest collaborator and immutable afterwards.
type Record struct {
	Type      string         `json:"type"`
	Country   string         `json:"country,omitempty"`
	Query     string         `json:"query"`
	Score     Score          `json:"score"`
	Seed      string         `json:"seed"`
	FetchedAt string         `json:"fetched_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	// Menu records carry dish context on top of the shared fields.
	DishName   string `json:"dish_name,omitempty"`
	Restaurant string `json:"restaurant,omitempty"`
	City       string `json:"city,omitempty"`
	Cuisine    string `json:"cuisine,omitempty"`
	URL        string `json:"url,omitempty"`

	// Entity metadata attached during clustering when extraction succeeds.
	EntityName       string  `json:"entity_name,omitempty"`
	EntityType       string  `json:"entity_type,omitempty"`
	EntityConfidence float64 `json:"entity_confidence,omitempty"`
}

// Accepted reports whether the record type is consumed by the cluster
// engine.
func (r Record) Accepted() bool {
	switch r.Type {
	case TypeGoogleTrendsRising, TypeRedditTrending, TypeFoodBlogPost, TypeMenuDish:
		return true
	}
	return false
}

// Text returns the clusterable text of the record. Menu records fall back
// to the dish name when the query field is empty.
func (r Record) Text() string {
	if r.Query != "" {
		return r.Query
	}
	return r.DishName
}
