package game

import (
	"errors"
	"fmt"

	"github.com/roach88/brewlab/internal/rng"
)

// Generation bounds.
const (
	MinCombo          = 2
	MaxComboLimit     = 4
	MinIngredientsLow = 4
	IngredientsCap    = 14

	DefaultMaxCombo       = 3
	DefaultMinIngredients = 6
	DefaultMaxIngredients = 8
)

// GenConfig fully determines a generated game.
type GenConfig struct {
	Seed           string `json:"seed" yaml:"seed"`
	Daily          bool   `json:"daily" yaml:"daily"`
	MaxCombo       int    `json:"maxCombo" yaml:"maxCombo"`
	MinIngredients int    `json:"minIngredients" yaml:"minIngredients"`
	MaxIngredients int    `json:"maxIngredients" yaml:"maxIngredients"`
}

// DefaultConfig returns a config with default bounds for seed.
func DefaultConfig(seed string) GenConfig {
	return GenConfig{
		Seed:           seed,
		MaxCombo:       DefaultMaxCombo,
		MinIngredients: DefaultMinIngredients,
		MaxIngredients: DefaultMaxIngredients,
	}
}

// WithDefaults fills zero-valued bounds from DefaultConfig.
func (c GenConfig) WithDefaults() GenConfig {
	if c.MaxCombo == 0 {
		c.MaxCombo = DefaultMaxCombo
	}
	if c.MinIngredients == 0 {
		c.MinIngredients = DefaultMinIngredients
	}
	if c.MaxIngredients == 0 {
		c.MaxIngredients = DefaultMaxIngredients
		if c.MaxIngredients < c.MinIngredients {
			c.MaxIngredients = c.MinIngredients
		}
	}
	return c
}

// Validate rejects configs outside the generation bounds.
// The first violated bound is reported as a *ValidationError.
func (c GenConfig) Validate() error {
	switch {
	case rng.Normalize(c.Seed) == "":
		return &ValidationError{Field: "seed", Value: c.Seed, Message: "must not be empty"}
	case c.MaxCombo < MinCombo || c.MaxCombo > MaxComboLimit:
		return &ValidationError{Field: "maxCombo", Value: c.MaxCombo,
			Message: fmt.Sprintf("must be between %d and %d", MinCombo, MaxComboLimit)}
	case c.MinIngredients < MinIngredientsLow:
		return &ValidationError{Field: "minIngredients", Value: c.MinIngredients,
			Message: fmt.Sprintf("must be at least %d", MinIngredientsLow)}
	case c.MaxIngredients < c.MinIngredients:
		return &ValidationError{Field: "maxIngredients", Value: c.MaxIngredients,
			Message: fmt.Sprintf("must be at least minIngredients (%d)", c.MinIngredients)}
	case c.MaxIngredients > IngredientsCap:
		return &ValidationError{Field: "maxIngredients", Value: c.MaxIngredients,
			Message: fmt.Sprintf("must be at most %d", IngredientsCap)}
	}
	return nil
}

// ValidationError reports a rejected configuration or selection.
// It is distinct from the "not found" results engine operations return.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
