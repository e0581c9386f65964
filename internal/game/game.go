package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/combo"
	"github.com/roach88/brewlab/internal/coverage"
	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
	"github.com/roach88/brewlab/internal/rng"
	"github.com/roach88/brewlab/internal/solver"
)

// Attempts is the number of salted variants tried before the fallback.
const Attempts = 12

// FallbackLabel salts the variant used when no attempt yields a hard target.
const FallbackLabel = "fallback"

// ErrNoTarget is returned when even the fallback variant brews nothing.
// Coverage makes every element brewable, so this indicates a broken invariant.
var ErrNoTarget = errors.New("no brewable target")

// Profile is the true composition of one ingredient projected onto marks,
// one per pair slot.
type Profile struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Slots []deduce.Mark `json:"slots"`
}

// Game is one generated puzzle. It is read-only once returned.
type Game struct {
	Seed     string `json:"seed"`
	Daily    bool   `json:"daily"`
	Variant  string `json:"variant"`
	MaxCombo int    `json:"maxCombo"`

	Ingredients         []ingredient.Ingredient `json:"ingredients"`
	ProfileHuntTarget   ingredient.Ingredient   `json:"profileHuntTarget"`
	FullMappingProfiles []Profile               `json:"fullMappingProfiles"`

	// TargetOrder is the exact-craft objective in canonical order.
	TargetOrder      []element.Element `json:"targetOrder"`
	MinSizeForTarget int               `json:"minSizeForTarget"`
	// TargetIDs is the smallest combination found to realize TargetOrder.
	TargetIDs []string `json:"targetIds"`
}

// Generate builds the game for cfg. Equal configs yield equal games.
func Generate(cfg GenConfig) (*Game, error) {
	return GenerateWithLogger(cfg, nil)
}

// GenerateWithLogger is Generate with per-attempt debug logging.
func GenerateWithLogger(cfg GenConfig, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := rng.Normalize(cfg.Seed)

	for n := 1; n <= Attempts; n++ {
		variant := rng.Salt(seed, n)
		g, ok := attempt(cfg, seed, variant)
		if !ok {
			logger.Debug("attempt produced no target", "variant", variant)
			continue
		}
		logger.Debug("attempt",
			"variant", variant,
			"ingredients", len(g.Ingredients),
			"target", element.Key(g.TargetOrder),
			"min_size", g.MinSizeForTarget,
		)
		if g.MinSizeForTarget >= combo.HardSize {
			return g, nil
		}
	}

	variant := rng.SaltLabel(seed, FallbackLabel)
	g, ok := attempt(cfg, seed, variant)
	if !ok {
		return nil, fmt.Errorf("generate %q: %w", seed, ErrNoTarget)
	}
	logger.Info("accepted fallback target",
		"variant", variant,
		"target", element.Key(g.TargetOrder),
		"min_size", g.MinSizeForTarget,
	)
	return g, nil
}

func attempt(cfg GenConfig, seed, variant string) (*Game, bool) {
	r := rng.FromString(variant)

	n := cfg.MinIngredients + r.Intn(cfg.MaxIngredients-cfg.MinIngredients+1)
	ings := ingredient.Generate(r, n)
	ings = coverage.Ensure(r, ings, cfg.MaxCombo)

	target, ok := combo.SelectTarget(r, combo.Catalog(ings, cfg.MaxCombo))
	if !ok {
		return nil, false
	}
	hunt := ings[r.Intn(len(ings))]

	return &Game{
		Seed:                seed,
		Daily:               cfg.Daily,
		Variant:             variant,
		MaxCombo:            cfg.MaxCombo,
		Ingredients:         ings,
		ProfileHuntTarget:   hunt,
		FullMappingProfiles: profiles(ings),
		TargetOrder:         target.Effects,
		MinSizeForTarget:    target.Size,
		TargetIDs:           target.IDs,
	}, true
}

func profiles(ings []ingredient.Ingredient) []Profile {
	out := make([]Profile, len(ings))
	for k, ing := range ings {
		out[k] = Profile{ID: ing.ID, Name: ing.Name, Slots: deduce.TrueMarks(ing.List())}
	}
	return out
}

// Ingredient looks up an ingredient by id.
func (g *Game) Ingredient(id string) (ingredient.Ingredient, bool) {
	for _, ing := range g.Ingredients {
		if ing.ID == id {
			return ing, true
		}
	}
	return ingredient.Ingredient{}, false
}

// Select resolves ids to ingredients for brewing. It rejects unknown or
// repeated ids and selections outside 2..MaxCombo.
func (g *Game) Select(ids []string) ([]ingredient.Ingredient, error) {
	if len(ids) < combo.MinSize || len(ids) > g.MaxCombo {
		return nil, &ValidationError{Field: "ids", Value: len(ids),
			Message: fmt.Sprintf("select between %d and %d ingredients", combo.MinSize, g.MaxCombo)}
	}
	seen := make(map[string]bool, len(ids))
	out := make([]ingredient.Ingredient, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, &ValidationError{Field: "ids", Value: id, Message: "selected twice"}
		}
		seen[id] = true
		ing, ok := g.Ingredient(id)
		if !ok {
			return nil, &ValidationError{Field: "ids", Value: id, Message: "unknown ingredient"}
		}
		out = append(out, ing)
	}
	return out, nil
}

// Brew evaluates the selected ingredients.
func (g *Game) Brew(ids []string) (brew.Result, error) {
	ings, err := g.Select(ids)
	if err != nil {
		return brew.Result{}, err
	}
	return brew.Brew(ings), nil
}

// Solve returns the earliest exact realization of the game's target.
func (g *Game) Solve() ([]string, bool) {
	return solver.FindExactSolution(g.Ingredients, g.TargetOrder, g.MaxCombo)
}

// Estimate previews a brew of ids from the player's marks. Fewer than two
// ids has no estimate; larger selections must pass Select.
func (g *Game) Estimate(ids []string, sheet deduce.Sheet) (deduce.Estimate, bool, error) {
	if len(ids) < combo.MinSize {
		return deduce.Estimate{}, false, nil
	}
	if _, err := g.Select(ids); err != nil {
		return deduce.Estimate{}, false, err
	}
	est, ok := deduce.EstimateOutcome(ids, sheet)
	return est, ok, nil
}
