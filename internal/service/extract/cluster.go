package extract

import (
	"math"
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// Markets that tend to originate food trends, and the markets where we
// want to catch them early.
var (
	leadMarkets   = map[string]struct{}{"US": {}, "GB": {}, "KR": {}, "JP": {}}
	targetMarkets = map[string]struct{}{"NL": {}, "DE": {}, "FR": {}}
)

// Default engine tuning.
const (
	DefaultThreshold = 88
	DefaultTopN      = 50
)

// EngineConfig contains configuration for the cluster engine.
type EngineConfig struct {
	// Threshold is the token-set similarity (0-100) at or above which a
	// new aggregation key is merged into an existing cluster.
	Threshold int

	// TopN caps how many clusters are exported as trends.
	TopN int
}

// Engine groups signal records into named trend clusters: entity identity
// first, fuzzy string similarity as fallback. Given a fixed record order
// and threshold the result is deterministic; merge decisions are greedy,
// online and irrevocable, so the output depends on record order.
type Engine struct {
	cfg EngineConfig
	log zerolog.Logger
}

// NewEngine creates a cluster engine. Zero config fields fall back to the
// defaults.
func NewEngine(cfg EngineConfig, log zerolog.Logger) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	return &Engine{cfg: cfg, log: log}
}

// Cluster rebuilds trend clusters from the full record set. Records of
// unaccepted types, generic queries and non-food fallback keys are dropped.
func (e *Engine) Cluster(records []signal.Record) []trend.Cluster {
	buckets := make(map[string][]signal.Record)
	var keyOrder []string

	dropped := 0
	for _, r := range records {
		if !r.Accepted() {
			dropped++
			continue
		}

		raw := r.Text()
		q := Normalize(raw)
		if q == "" {
			dropped++
			continue
		}

		if ShouldSkipGeneric(q) {
			dropped++
			continue
		}

		var key string
		// Entity extraction runs on the raw text: the TitleCase pattern
		// needs the original casing.
		if entities := ExtractEntities(raw); len(entities) > 0 {
			best := entities[0]
			for _, ent := range entities[1:] {
				if ent.Confidence > best.Confidence {
					best = ent
				}
			}
			key = Normalize(best.Name)
			r.EntityName = best.Name
			r.EntityType = best.Type
			r.EntityConfidence = best.Confidence
		} else {
			q = Normalize(StripSoftStopwords(q))
			if q == "" || !IsFoody(q) {
				dropped++
				continue
			}
			key = q
		}

		if key == "" {
			dropped++
			continue
		}
		if _, ok := buckets[key]; !ok {
			keyOrder = append(keyOrder, key)
		}
		buckets[key] = append(buckets[key], r)
	}

	merged := e.mergeKeys(keyOrder)

	clusters := make([]trend.Cluster, 0, len(merged))
	for _, group := range merged {
		clusters = append(clusters, buildCluster(group, buckets))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Score > clusters[j].Score
	})

	e.log.Debug().
		Int("records", len(records)).
		Int("dropped", dropped).
		Int("keys", len(keyOrder)).
		Int("clusters", len(clusters)).
		Msg("clustering complete")

	return clusters
}

// labelGroup is one cluster in the making: the label is the first key that
// created it and never changes on merge.
type labelGroup struct {
	label string
	keys  []string
}

// mergeKeys runs the greedy single-pass fuzzy merge over aggregation keys
// in encounter order.
func (e *Engine) mergeKeys(keys []string) []labelGroup {
	var groups []labelGroup

	for _, key := range keys {
		bestIdx, bestScore := -1, -1
		for i, g := range groups {
			if s := fuzzy.TokenSetRatio(key, g.label); s > bestScore {
				bestIdx, bestScore = i, s
			}
		}
		if bestIdx >= 0 && bestScore >= e.cfg.Threshold {
			groups[bestIdx].keys = append(groups[bestIdx].keys, key)
			continue
		}
		groups = append(groups, labelGroup{label: key, keys: []string{key}})
	}

	return groups
}

func buildCluster(group labelGroup, buckets map[string][]signal.Record) trend.Cluster {
	var all []signal.Record
	countries := make(map[string]struct{})
	seeds := make(map[string]struct{})
	var scores []float64

	for _, key := range group.keys {
		for _, r := range buckets[key] {
			all = append(all, r)
			if r.Country != "" {
				countries[r.Country] = struct{}{}
			}
			if r.Seed != "" {
				seeds[r.Seed] = struct{}{}
			}
			// Unparseable scores are excluded from the mean but the
			// record still counts everywhere else.
			if v, ok := r.Score.Value(); ok {
				scores = append(scores, v)
			}
		}
	}

	base := 0.0
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		base = sum / float64(len(scores))
	}

	breadth := (1 + 0.25*maxF(0, float64(len(seeds)-1))) * (1 + 0.5*maxF(0, float64(len(countries)-1)))

	entityType, entityConfidence := majorityEntity(all)

	return trend.Cluster{
		Label:            group.label,
		Records:          all,
		Countries:        sortedKeys(countries),
		Seeds:            sortedKeys(seeds),
		Score:            base * breadth,
		EntityType:       entityType,
		EntityConfidence: entityConfidence,
	}
}

// majorityEntity returns the modal entity type across member records (ties
// broken by whichever reached the top count first) and the mean confidence
// over records carrying entity metadata.
func majorityEntity(records []signal.Record) (string, float64) {
	counts := make(map[string]int)
	best, bestCount := "", 0
	confSum, confN := 0.0, 0

	for _, r := range records {
		if r.EntityType == "" {
			continue
		}
		counts[r.EntityType]++
		if counts[r.EntityType] > bestCount {
			best, bestCount = r.EntityType, counts[r.EntityType]
		}
		confSum += r.EntityConfidence
		confN++
	}

	if confN == 0 {
		return "", 0
	}
	return best, confSum / float64(confN)
}

// Export derives the reportable trend rows for the top clusters. The score
// carried here is the cluster intensity; the trend scorer replaces it with
// the 0-25 ranking total.
func (e *Engine) Export(clusters []trend.Cluster) []trend.Trend {
	n := len(clusters)
	if n > e.cfg.TopN {
		n = e.cfg.TopN
	}

	out := make([]trend.Trend, 0, n)
	for _, c := range clusters[:n] {
		out = append(out, exportCluster(c))
	}
	return out
}

func exportCluster(c trend.Cluster) trend.Trend {
	// Earliest first-seen per country. ISO timestamps are compared
	// lexically; ingest guarantees same-format UTC strings.
	firstSeen := make(map[string]string)
	var countryOrder []string
	for _, r := range c.Records {
		if r.Country == "" || r.FetchedAt == "" {
			continue
		}
		if prev, ok := firstSeen[r.Country]; !ok || r.FetchedAt < prev {
			if !ok {
				countryOrder = append(countryOrder, r.Country)
			}
			firstSeen[r.Country] = r.FetchedAt
		}
	}
	sort.SliceStable(countryOrder, func(i, j int) bool {
		return firstSeen[countryOrder[i]] < firstSeen[countryOrder[j]]
	})

	var leadLag trend.LeadLag
	for cc, ts := range firstSeen {
		if _, ok := leadMarkets[cc]; ok {
			if leadLag.LeadFirst == "" || ts < leadLag.LeadFirst {
				leadLag.LeadFirst = ts
			}
		}
		if _, ok := targetMarkets[cc]; ok {
			if leadLag.TargetFirst == "" || ts < leadLag.TargetFirst {
				leadLag.TargetFirst = ts
			}
		}
	}
	leadLag.HasLead = leadLag.LeadFirst != ""
	leadLag.HasTarget = leadLag.TargetFirst != ""

	seeds := c.Seeds
	if len(seeds) > 10 {
		seeds = seeds[:10]
	}

	return trend.Trend{
		Label:            c.Label,
		Score:            round2(c.Score),
		Countries:        c.Countries,
		CountryOrder:     countryOrder,
		FirstSeen:        firstSeen,
		LeadLag:          leadLag,
		SeedCount:        len(c.Seeds),
		Seeds:            seeds,
		Examples:         topExamples(c.Records, 8),
		RawCount:         len(c.Records),
		EntityType:       c.EntityType,
		EntityConfidence: c.EntityConfidence,
	}
}

// topExamples returns the most frequent normalized member queries, ties
// broken by first appearance.
func topExamples(records []signal.Record, limit int) []string {
	counts := make(map[string]int)
	firstIdx := make(map[string]int)
	var order []string

	for i, r := range records {
		q := Normalize(r.Text())
		if _, ok := counts[q]; !ok {
			order = append(order, q)
			firstIdx[q] = i
		}
		counts[q]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstIdx[order[i]] < firstIdx[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
