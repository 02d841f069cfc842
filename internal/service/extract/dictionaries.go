package extract

import "regexp"

// Curated lookup tables for entity extraction and food-relevance filtering.
// These are loaded once at init and treated as read-only; tuning them is a
// code change, not runtime state.

// Viral or branded products. Exact substring hits are the strongest signal
// a query is about a specific product rather than a category.
var viralProducts = []string{
	"dubai chocolate",
	"pink sauce",
	"sleepy girl mocktail",
	"internal shower drink",
	"cottage cheese ice cream",
	"cucumber salad",
	"biscoff",
	"kewpie",
	"maldon",
}

// Kitchen equipment terms, specific enough on their own.
var equipmentTerms = []string{
	"air fryer",
	"instant pot",
	"sous vide",
	"slow cooker",
	"rice cooker",
	"food processor",
}

// Ingredient varieties grouped by category. Only the flat set matters for
// matching; the grouping documents why a term is here.
var ingredientVarieties = map[string][]string{
	"cheese": {
		"scamorza", "burrata", "stracciatella", "halloumi", "feta",
		"manchego", "gruyere", "comte", "pecorino", "gorgonzola",
		"taleggio", "fontina", "provolone", "mascarpone",
	},
	"chili": {
		"gochugaru", "gochujang", "calabrian chili", "aleppo pepper",
		"urfa biber", "kashmiri chili", "guajillo", "chipotle",
		"chili crisp", "chili oil", "harissa",
	},
	"salt": {
		"maldon salt", "fleur de sel", "himalayan pink salt",
		"black lava salt", "smoked salt", "sel gris",
	},
	"vinegar": {
		"black garlic vinegar", "champagne vinegar", "sherry vinegar",
		"rice vinegar", "apple cider vinegar", "balsamic vinegar",
	},
	"oil": {
		"truffle oil", "sesame oil", "chili oil", "avocado oil",
		"grapeseed oil", "walnut oil", "pumpkin seed oil",
	},
	"sauce": {
		"gochujang", "miso", "tahini", "harissa", "sriracha",
		"kimchi", "ponzu", "hoisin", "kewpie mayo", "yuzu kosho",
	},
	"sweetener": {
		"honey butter", "date syrup", "maple syrup", "agave",
		"monk fruit", "stevia", "coconut sugar",
	},
}

// allIngredients is the flattened, deduplicated ingredient set in a stable
// iteration order.
var allIngredients = flattenIngredients()

func flattenIngredients() []string {
	categories := []string{"cheese", "chili", "salt", "vinegar", "oil", "sauce", "sweetener"}
	seen := make(map[string]struct{})
	var out []string
	for _, cat := range categories {
		for _, item := range ingredientVarieties[cat] {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// Product format keywords. "rtd" is ready-to-drink.
var productFormats = []string{
	"rtd",
	"frozen",
	"tinned",
	"canned",
	"jarred",
	"powdered",
	"instant",
	"dried",
	"smoked",
	"fermented",
	"pickled",
	"protein bar",
	"protein powder",
	"protein pudding",
	"protein ice cream",
	"meal kit",
	"meal prep",
}

// Food terms accepted as the second half of a TitleCase + food-term match.
var properNounFoodTerms = map[string]struct{}{
	"chocolate": {}, "cheese": {}, "sauce": {}, "oil": {}, "salt": {},
	"mayo": {}, "mayonnaise": {}, "butter": {}, "milk": {}, "cream": {},
	"yogurt": {}, "bbq": {}, "chicken": {}, "beef": {}, "noodle": {},
	"noodles": {}, "curry": {}, "soup": {}, "salad": {}, "tart": {},
	"cake": {}, "cookie": {}, "ice cream": {}, "pudding": {}, "bar": {},
	"drink": {}, "latte": {}, "tea": {},
}

// Generic single words that are never actionable on their own.
var genericVeto = map[string]struct{}{
	"chocolate": {}, "cheese": {}, "chicken": {}, "beef": {}, "pork": {},
	"salmon": {}, "recipe": {}, "recipes": {}, "food": {}, "cooking": {},
	"dinner": {}, "lunch": {}, "breakfast": {}, "snack": {}, "dessert": {},
	"appetizer": {},
}

// Listicle and content-marketing headline shapes. These are editorial
// signals, not product signals.
var listiclePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2,}\s+`),
	regexp.MustCompile(`\d+\s+(ways|recipes|ideas|tips|tricks|hacks|secrets|things|items)`),
	regexp.MustCompile(`\s+ideas$`),
	regexp.MustCompile(`^best\s+`),
	regexp.MustCompile(`^top\s+\d+`),
	regexp.MustCompile(`^how to\s+`),
	regexp.MustCompile(`^why\s+`),
	regexp.MustCompile(`^what\s+`),
	regexp.MustCompile(`^has\s+\w+\s+(changed|actually)`),
	regexp.MustCompile(`^is\s+\w+\s+(still|really)`),
	regexp.MustCompile(`^should\s+you`),
	regexp.MustCompile(`the\s+best\s+`),
	regexp.MustCompile(`the\s+\d{2,}\s+`),
	regexp.MustCompile(`you\s+need\s+to\s+(know|try|make)`),
	regexp.MustCompile(`we\s+(made|love|tested|tried|published)`),
	regexp.MustCompile(`our\s+editors`),
	regexp.MustCompile(`editors?\s+(picks?|choice|favorite|make)`),
	regexp.MustCompile(`guide\s+to`),
	regexp.MustCompile(`everything\s+you\s+need`),
	regexp.MustCompile(`that\s+(dont|doesn't|wont|won't)\s+taste`),
	regexp.MustCompile(`(more|and)\s+recipes\s+we`),
}

// Filler words stripped before fallback clustering. Stripped as " word "
// substrings in this exact order; see the normalization notes in DESIGN.md.
var softStopwords = []string{
	"near", "me", "best", "easy", "simple",
	"healthy", "healthier", "calories", "kcal",
	"wat", "wat is", "was ist", "c'est", "comment", "pourquoi",
}

// Food hints used by the relevance filter.
var foodHints = []string{
	// proteins / dairy
	"chicken", "beef", "pork", "salmon", "tuna", "shrimp", "egg", "eggs",
	"tofu", "yoghurt", "yogurt", "cheese", "milk", "butter", "skyr", "kefir",

	// carbs & staples
	"bread", "rice", "pasta", "noodle", "noodles", "potato", "potatoes",
	"wrap", "tortilla", "pizza", "burger", "oats", "granola",

	// produce
	"avocado", "tomato", "tomatoes", "onion", "onions", "garlic",
	"banana", "bananas", "apple", "apples", "spinach", "broccoli", "lemon",

	// dishes / cuisines
	"soup", "salad", "curry", "stew", "taco", "ramen", "risotto",
	"lasagna", "lasagne", "paella", "dumpling", "dumplings",

	// ingredients that trend
	"miso", "matcha", "kimchi", "gochujang", "tahini", "hummus",

	// form factors
	"sauce", "broth", "paste", "powder", "mix", "dressing", "marinade", "dip",

	// generic food signals (recipes are useful!)
	"recipe", "recipes", "recept", "recepten", "rezept", "rezepte", "recette", "recettes",
}

// Pantry and form-factor terms, a weak positive on top of foodHints.
var pantryTerms = []string{
	"sauce", "paste", "powder", "mix", "broth", "marinade", "dressing", "dip",
}

// Non-food brand terms. Small and stable; avoids the "pistachio" cosmetics
// trap without maintaining brand lists per category.
var nonfoodVeto = []string{
	"catrice", "maybelline", "loreal", "l'oréal", "nyx", "sephora",
	"rolex", "oyster", "perpetual",
	"nike", "adidas",
	"iphone", "samsung",
}

// Letter boundaries for words with accented characters. RE2's \b only
// fires at ASCII word edges, so \b around à or öffnungszeiten never
// matches; these guards stand in for it.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:[^\p{L}\p{N}_]|$)`
)

// Local or venue intent, pattern based so no city lists are needed.
var localIntentRe = regexp.MustCompile(`(?i)` +
	`(?:\bnear me\b)` +
	`|(?:\bin my area\b)` +
	`|(?:\bopen now\b|\bopening hours\b|\bopeningstijden\b|\bhoraires\b|` + wordStart + `öffnungszeiten` + wordEnd + `)` +
	`|(?:\bmenu\b|\bkarte\b|\bcarte\b)` +
	`|(?:\bdelivery\b|\btakeaway\b|\bdeliveroo\b|\bubereats\b|\bjust eat\b|\bthuisbezorgd\b)` +
	`|(?:\brestaurant\b|\brestaurants\b|\bresto\b|\bbar\b|\bbistro\b)` +
	`|(?:\breview(s)?\b|\brezension(en)?\b|\bavis\b)` +
	`|(?:\b(best|top|good|goede|beste|meilleur|meilleurs|besten)\b.*` + wordStart + `(in|near|around|bei|à|en)` + wordEnd + `)` +
	`|(?:` + wordStart + `(in|near|around|bei|à|en)\s+[a-zàâçéèêëîïôùûüÿñæœ\-\s]{2,}$)`)

// Recipe intent is desirable signal on its own, but never overrides a
// local-intent veto.
var recipeRe = regexp.MustCompile(`(?i)\b(recipe|recipes|recept|recepten|rezept|rezepte|recette|recettes)\b`)
