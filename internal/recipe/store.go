package recipe

import (
	"fmt"
	"sync"
)

// Store keeps recipes in memory, grouped by city identifier.
// Identifiers come from a single counter shared by all cities; they start at 1
// and are never reused, even after deletion. Nothing is persisted.
type Store struct {
	mu     sync.Mutex
	nextID int
	byCity map[string][]Recipe
}

// NewStore returns an empty Store whose first recipe gets id 1.
func NewStore() *Store {
	return &Store{
		nextID: 1,
		byCity: make(map[string][]Recipe),
	}
}

// List returns a copy of the city's recipes in creation order.
// A city without recipes yields an empty, non-nil slice.
func (s *Store) List(city string) []Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Recipe, len(s.byCity[city]))
	copy(out, s.byCity[city])
	return out
}

// Add allocates the next identifier and appends a new recipe to the city's list.
func (s *Store) Add(city, content string) Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Recipe{ID: s.nextID, Content: content}
	s.nextID++
	s.byCity[city] = append(s.byCity[city], r)
	return r
}

// Delete removes the recipe with the given id from the city's list, keeping
// the order of the remaining entries. The city key is dropped once its last
// recipe is gone.
func (s *Store) Delete(city string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.byCity[city]
	if !ok {
		return fmt.Errorf("deleting recipe %d for city %s: %w", id, city, ErrNoRecipes)
	}

	for i, r := range list {
		if r.ID != id {
			continue
		}
		if len(list) == 1 {
			delete(s.byCity, city)
			return nil
		}
		s.byCity[city] = append(list[:i:i], list[i+1:]...)
		return nil
	}

	return fmt.Errorf("deleting recipe %d for city %s: %w", id, city, ErrRecipeNotFound)
}

// Len returns the total number of stored recipes across all cities.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, list := range s.byCity {
		n += len(list)
	}
	return n
}
