package ingest

import (
	"context"
	"time"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

// MenuSource tracks restaurant dishes to catch chef-led trends before they
// reach retail search patterns. Concrete scrapers live outside the core;
// they implement this contract and emit records via NewDishRecord.
type MenuSource interface {
	// SourceID identifies the source, e.g. "menu_resy_nyc".
	SourceID() string

	// Country is the ISO-2 market this source observes.
	Country() string

	// FetchDishes returns new or trending dishes for a city.
	FetchDishes(ctx context.Context, city string, limit int) ([]signal.Record, error)
}

// Dish holds the raw fields a menu source scraped for one dish.
type Dish struct {
	Restaurant string
	Name       string
	City       string
	URL        string
	Cuisine    string
	Price      string
	Category   string // appetizer, main, dessert
}

// NewDishRecord builds the standardized menu record for a scraped dish.
// The dish name doubles as the query so the extraction pipeline treats
// menu items like any other signal.
func NewDishRecord(source MenuSource, d Dish) signal.Record {
	return signal.Record{
		Type:       signal.TypeMenuDish,
		Country:    source.Country(),
		Query:      d.Name,
		Seed:       source.SourceID(),
		FetchedAt:  time.Now().UTC().Format(timestampLayout),
		DishName:   d.Name,
		Restaurant: d.Restaurant,
		City:       d.City,
		Cuisine:    d.Cuisine,
		URL:        d.URL,
		Metadata: map[string]any{
			"price":    d.Price,
			"category": d.Category,
		},
	}
}
