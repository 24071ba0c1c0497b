package api

import (
	"context"

	"github.com/neexbeast/city-recipes/internal/citydata"
	"github.com/neexbeast/city-recipes/internal/recipe"
)

// RecipeStore defines the recipe operations needed by handlers.
type RecipeStore interface {
	List(city string) []recipe.Recipe
	Add(city, content string) recipe.Recipe
	Delete(city string, id int) error
}

// CityFetcher defines the upstream city lookups needed by handlers.
type CityFetcher interface {
	Snapshot(ctx context.Context, cityID string) (*citydata.Snapshot, error)
	CityExists(ctx context.Context, cityID string) error
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
