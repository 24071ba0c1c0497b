package api

import (
	"errors"
	"net/http"

	"github.com/neexbeast/city-recipes/internal/citydata"
	"github.com/neexbeast/city-recipes/internal/recipe"
)

// Kind classifies a handler failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindCityNotFound
	KindValidation
	KindNoRecipesForCity
	KindRecipeNotFound
)

const internalErrorMessage = "Internal Server Error"

// kindOf maps errors returned by handler steps to a Kind.
func kindOf(err error) Kind {
	var ve *recipe.ValidationError
	switch {
	case errors.Is(err, citydata.ErrCityNotFound):
		return KindCityNotFound
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, recipe.ErrNoRecipes):
		return KindNoRecipesForCity
	case errors.Is(err, recipe.ErrRecipeNotFound):
		return KindRecipeNotFound
	default:
		return KindInternal
	}
}

// response returns the status code and client-facing message for err.
func response(err error) (int, string) {
	switch kindOf(err) {
	case KindCityNotFound:
		return http.StatusNotFound, "City not found"
	case KindValidation:
		var ve *recipe.ValidationError
		errors.As(err, &ve)
		return http.StatusBadRequest, ve.Message
	case KindNoRecipesForCity:
		return http.StatusNotFound, "No recipes for this city"
	case KindRecipeNotFound:
		return http.StatusNotFound, "Recipe not found"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}
