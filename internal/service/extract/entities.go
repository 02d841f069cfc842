package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Entity type values.
const (
	EntityBrandedProduct    = "branded_product"
	EntityIngredientVariety = "ingredient_variety"
	EntityEquipment         = "equipment"
	EntityProductFormat     = "product_format"
)

// Entity is a specific food concept pulled out of a single query. Entities
// are ephemeral: the highest-confidence one becomes the query's cluster key.
type Entity struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

var properNounRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+([a-z]+)\b`)

// ExtractEntities extracts specific food entities from a query. All pattern
// families run; matches are merged by name keeping the highest confidence.
// An empty result means the query is not specific enough to track.
//
// "Dubai chocolate" and "scamorza" are entities; "chocolate" and "cheese"
// are categories and yield nothing.
func ExtractEntities(query string) []Entity {
	if utf8.RuneCountInString(query) < 3 {
		return nil
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	var entities []Entity

	// Pattern 1: viral/branded products.
	for _, product := range viralProducts {
		if strings.Contains(queryLower, product) {
			entities = append(entities, Entity{Name: product, Type: EntityBrandedProduct, Confidence: 1.0})
		}
	}

	// Pattern 2: equipment, already specific.
	for _, equip := range equipmentTerms {
		if strings.Contains(queryLower, equip) {
			entities = append(entities, Entity{Name: equip, Type: EntityEquipment, Confidence: 1.0})
		}
	}

	// Pattern 3: ingredient varieties.
	for _, ingredient := range allIngredients {
		if strings.Contains(queryLower, ingredient) {
			entities = append(entities, Entity{Name: ingredient, Type: EntityIngredientVariety, Confidence: 0.9})
		}
	}

	// Pattern 4: product format plus trailing words ("frozen dumpling",
	// "protein pudding"). Only the first match per format term counts.
	for _, format := range productFormats {
		if !strings.Contains(queryLower, format) {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(format) + `\s+[\w\s]{3,30}\b`)
		if m := re.FindString(queryLower); m != "" {
			entities = append(entities, Entity{Name: strings.TrimSpace(m), Type: EntityProductFormat, Confidence: 0.8})
		}
	}

	// Pattern 5: TitleCase word(s) followed by a known lowercase food term
	// ("Dubai chocolate", "Korean gochujang"). Needs the original casing,
	// so this one looks at the raw query.
	for _, m := range properNounRe.FindAllStringSubmatch(query, -1) {
		properPart, foodPart := m[1], m[2]
		if _, ok := properNounFoodTerms[strings.ToLower(foodPart)]; ok {
			entities = append(entities, Entity{
				Name:       strings.ToLower(properPart + " " + foodPart),
				Type:       EntityBrandedProduct,
				Confidence: 0.7,
			})
		}
	}

	return dedupeEntities(entities)
}

// dedupeEntities merges entities by exact name, keeping the
// highest-confidence instance and the first-insertion order.
func dedupeEntities(entities []Entity) []Entity {
	index := make(map[string]int, len(entities))
	var out []Entity
	for _, e := range entities {
		if i, ok := index[e.Name]; ok {
			if e.Confidence > out[i].Confidence {
				out[i] = e
			}
			continue
		}
		index[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}

// IsSpecificEnough reports whether the query yields at least one entity.
func IsSpecificEnough(query string) bool {
	return len(ExtractEntities(query)) > 0
}

// ShouldSkipGeneric reports whether a query is too generic or reads like a
// listicle headline, neither of which is actionable for assortment work.
// Evaluated independently of entity extraction, as an early reject.
func ShouldSkipGeneric(query string) bool {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	words := strings.Fields(queryLower)
	if len(words) == 1 {
		if _, ok := genericVeto[words[0]]; ok {
			return true
		}
	}

	for _, re := range listiclePatterns {
		if re.MatchString(queryLower) {
			return true
		}
	}

	return false
}
