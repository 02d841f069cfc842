package trend

import (
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// LeadLag captures first-seen evidence in trend-originating markets versus
// the markets we sell in.
type LeadLag struct {
	LeadFirst   string `json:"lead_first,omitempty"`
	TargetFirst string `json:"target_first,omitempty"`
	HasLead     bool   `json:"has_lead"`
	HasTarget   bool   `json:"has_target"`
}

// Cluster groups the signal records judged to refer to the same underlying
// food concept. Clusters are rebuilt from scratch on every extraction run.
type Cluster struct {
	Label     string
	Records   []signal.Record
	Countries []string
	Seeds     []string
	Score     float64

	EntityType       string
	EntityConfidence float64
}

// Trend is one exported trend row. The cluster engine fills everything but
// the breakdown; the scorer replaces Score with the 0-25 ranking total and
// attaches ScoreBreakdown.
type Trend struct {
	Label            string             `json:"trend"`
	Score            float64            `json:"score"`
	ScoreBreakdown   map[string]float64 `json:"score_breakdown,omitempty"`
	Countries        []string           `json:"countries"`
	CountryOrder     []string           `json:"country_order"`
	FirstSeen        map[string]string  `json:"first_seen"`
	LeadLag          LeadLag            `json:"lead_lag"`
	SeedCount        int                `json:"seed_count"`
	Seeds            []string           `json:"seeds"`
	Examples         []string           `json:"examples"`
	RawCount         int                `json:"raw_count"`
	EntityType       string             `json:"entity_type,omitempty"`
	EntityConfidence float64            `json:"entity_confidence,omitempty"`
	Analysis         *Analysis          `json:"analysis,omitempty"`
	ProductMatches   []ProductMatch     `json:"product_matches,omitempty"`
	MatchingError    string             `json:"matching_error,omitempty"`
}

// ProductMatch links a trend to one catalog product, as judged by a
// Matcher implementation.
type ProductMatch struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Confidence  int    `json:"confidence"`
	Reasoning   string `json:"reasoning,omitempty"`
}

// Analysis is the opaque verdict of the LLM analysis oracle. Empty fields
// mean the oracle was not consulted or failed for this trend.
type Analysis struct {
	ProductFit          string   `json:"product_fit,omitempty"`
	ProductFitReasoning string   `json:"product_fit_reasoning,omitempty"`
	MarketReadiness     string   `json:"market_readiness,omitempty"`
	AdoptionTimeline    string   `json:"adoption_timeline,omitempty"`
	Sentiment           string   `json:"sentiment,omitempty"`
	RecommendedActions  []string `json:"recommended_actions,omitempty"`
	Risks               []string `json:"risks,omitempty"`
	Error               string   `json:"error,omitempty"`
}

// Snapshot is one persisted history row for a (trend label, week) pair.
type Snapshot struct {
	Week           string             `json:"week"`
	Label          string             `json:"trend"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
	Countries      []string           `json:"countries"`
	RawCount       int                `json:"raw_count"`
	EntityType     string             `json:"entity_type,omitempty"`
}
