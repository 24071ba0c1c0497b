package recipe

import (
	"errors"
	"unicode/utf16"
)

// Content length bounds, counted in UTF-16 code units so characters outside
// the Basic Multilingual Plane (most emoji) count as two.
const (
	MinContentLength = 10
	MaxContentLength = 2000
)

// Recipe is a user-submitted text note attached to a single city.
type Recipe struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// ValidationError reports malformed recipe content. Message is safe to
// return to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrContentRequired = &ValidationError{Message: "Content is required"}
	ErrContentTooShort = &ValidationError{Message: "Content too short (min 10 characters)"}
	ErrContentTooLong  = &ValidationError{Message: "Content too long (max 2000 characters)"}
)

var (
	// ErrNoRecipes is returned when a city has no recipe list at all.
	ErrNoRecipes = errors.New("no recipes for city")
	// ErrRecipeNotFound is returned when the city's list has no recipe with the given id.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// ValidateContent checks presence, then minimum length, then maximum length.
// The first failing rule wins. A nil content means the field was absent or
// was not a string.
func ValidateContent(content *string) error {
	if content == nil {
		return ErrContentRequired
	}

	n := contentLength(*content)
	if n < MinContentLength {
		return ErrContentTooShort
	}
	if n > MaxContentLength {
		return ErrContentTooLong
	}

	return nil
}

func contentLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
