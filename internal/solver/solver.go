// Package solver finds the smallest ingredient combination that brews an exact effect set.
package solver

import (
	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/combo"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
)

// FindExactSolution returns the ids of the earliest combination, by
// increasing size and then index order, whose effects equal target exactly:
// a superset does not match. Reports false when no combination of
// 2..maxCombo ingredients realizes target.
func FindExactSolution(ings []ingredient.Ingredient, target []element.Element, maxCombo int) ([]string, bool) {
	if len(target) == 0 {
		return nil, false
	}
	want := element.Key(target)
	var found []string
	picked := make([]ingredient.Ingredient, 0, maxCombo)

	combo.WalkSizes(len(ings), combo.MinSize, maxCombo, func(idx []int) bool {
		picked = picked[:0]
		for _, i := range idx {
			picked = append(picked, ings[i])
		}
		r := brew.Brew(picked)
		if len(r.Effects) != len(target) || r.Key() != want {
			return false
		}
		found = ingredient.IDs(picked)
		return true
	})
	return found, found != nil
}
