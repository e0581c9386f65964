// Package coverage guarantees that every element can be brewed.
//
// An element is covered when some combination of 2..maxCombo ingredients
// brews to a result containing it. Ensure appends synthesized ingredients
// until all eight elements are covered, so generation never fails on coverage.
package coverage

import (
	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/combo"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
	"github.com/roach88/brewlab/internal/rng"
)

// Covers reports whether some combination of 2..maxCombo ingredients brews to
// a result containing e. The search stops at the first witness.
func Covers(ings []ingredient.Ingredient, e element.Element, maxCombo int) bool {
	_, ok := Witness(ings, e, maxCombo)
	return ok
}

// Witness returns the indices of the first combination, by increasing size
// then index order, whose brew contains e.
func Witness(ings []ingredient.Ingredient, e element.Element, maxCombo int) ([]int, bool) {
	var found []int
	picked := make([]ingredient.Ingredient, 0, maxCombo)
	combo.WalkSizes(len(ings), combo.MinSize, maxCombo, func(idx []int) bool {
		picked = picked[:0]
		for _, i := range idx {
			picked = append(picked, ings[i])
		}
		if brew.Brew(picked).Has(e) {
			found = append([]int(nil), idx...)
			return true
		}
		return false
	})
	return found, found != nil
}

// Uncovered lists, in canonical order, the elements no combination reaches.
func Uncovered(ings []ingredient.Ingredient, maxCombo int) []element.Element {
	var out []element.Element
	for _, e := range element.All() {
		if !Covers(ings, e, maxCombo) {
			out = append(out, e)
		}
	}
	return out
}

// Ensure returns ings extended with synthesized ingredients until every
// element is covered. Elements are checked in canonical order. Each
// synthesized ingredient holds the missing element and never its opponent,
// so at most two are needed per element. The input slice is not modified.
func Ensure(g *rng.Generator, ings []ingredient.Ingredient, maxCombo int) []ingredient.Ingredient {
	out := append([]ingredient.Ingredient(nil), ings...)
	for _, e := range element.All() {
		for !Covers(out, e, maxCombo) {
			out = append(out, ingredient.Synthesize(g, len(out), e, out))
		}
	}
	return out
}
