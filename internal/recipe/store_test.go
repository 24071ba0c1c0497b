package recipe_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/city-recipes/internal/recipe"
)

func TestStore_AddAssignsIncreasingIDs(t *testing.T) {
	s := recipe.NewStore()

	first := s.Add("42", "Bring flour and sugar")
	second := s.Add("42", "Add two eggs and whisk")
	other := s.Add("7", "Slow-cook the beans")

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "Bring flour and sugar", first.Content)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 3, other.ID, "ids are global, not per city")
}

func TestStore_ListPreservesInsertionOrder(t *testing.T) {
	s := recipe.NewStore()
	s.Add("42", "first recipe text")
	s.Add("42", "second recipe text")
	s.Add("42", "third recipe text")

	got := s.List("42")
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestStore_ListUnknownCityIsEmpty(t *testing.T) {
	s := recipe.NewStore()

	got := s.List("nowhere")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := recipe.NewStore()
	s.Add("42", "original content")

	got := s.List("42")
	got[0].Content = "mutated"

	assert.Equal(t, "original content", s.List("42")[0].Content)
}

func TestStore_DeleteKeepsOrder(t *testing.T) {
	s := recipe.NewStore()
	s.Add("42", "first recipe text")
	s.Add("42", "second recipe text")
	s.Add("42", "third recipe text")

	require.NoError(t, s.Delete("42", 2))

	got := s.List("42")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestStore_DeleteNoRecipes(t *testing.T) {
	s := recipe.NewStore()

	err := s.Delete("42", 1)
	require.ErrorIs(t, err, recipe.ErrNoRecipes)
}

func TestStore_DeleteUnknownID(t *testing.T) {
	s := recipe.NewStore()
	s.Add("42", "first recipe text")

	err := s.Delete("42", 99)
	require.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestStore_DeleteRecipeOfAnotherCity(t *testing.T) {
	s := recipe.NewStore()
	s.Add("42", "first recipe text")
	r := s.Add("7", "other city recipe")

	err := s.Delete("42", r.ID)
	require.ErrorIs(t, err, recipe.ErrRecipeNotFound)
	assert.Len(t, s.List("7"), 1)
}

func TestStore_DeleteLastRecipeDropsCity(t *testing.T) {
	s := recipe.NewStore()
	r := s.Add("42", "only recipe here")

	require.NoError(t, s.Delete("42", r.ID))
	assert.Empty(t, s.List("42"))

	err := s.Delete("42", r.ID)
	require.ErrorIs(t, err, recipe.ErrNoRecipes)
}

func TestStore_IDsNotReusedAfterDelete(t *testing.T) {
	s := recipe.NewStore()
	r1 := s.Add("42", "first recipe text")
	require.NoError(t, s.Delete("42", r1.ID))

	r2 := s.Add("42", "second recipe text")
	assert.Equal(t, 2, r2.ID)
}

func TestStore_Len(t *testing.T) {
	s := recipe.NewStore()
	assert.Equal(t, 0, s.Len())

	s.Add("42", "first recipe text")
	s.Add("7", "second recipe text")
	assert.Equal(t, 2, s.Len())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := recipe.NewStore()

	const n = 100
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Add("42", strings.Repeat("x", 12)).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, s.List("42"), n)
}

func TestStore_ConcurrentDeleteSameID(t *testing.T) {
	s := recipe.NewStore()
	r := s.Add("42", "first recipe text")
	s.Add("42", "second recipe text")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Delete("42", r.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}
