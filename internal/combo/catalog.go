package combo

import (
	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
	"github.com/roach88/brewlab/internal/rng"
)

// HardSize is the smallest realizing size that counts as a hard target.
const HardSize = 3

// Entry is one distinct non-null outcome and its smallest realizing combination.
type Entry struct {
	Effects []element.Element `json:"effects"`
	Key     string            `json:"key"`
	Indices []int             `json:"indices"`
	IDs     []string          `json:"ids"`
	Size    int               `json:"size"`
}

// Hard reports whether the entry needs at least HardSize ingredients.
func (e Entry) Hard() bool {
	return e.Size >= HardSize
}

// Catalog brews every combination of size 2..maxCombo and keeps, for each
// distinct effect set, the first combination found. Since sizes are walked
// in increasing order, that combination is also a smallest one. Entries are
// returned in discovery order; null results are discarded.
func Catalog(ings []ingredient.Ingredient, maxCombo int) []Entry {
	var entries []Entry
	seen := map[string]bool{}
	picked := make([]ingredient.Ingredient, 0, maxCombo)

	WalkSizes(len(ings), MinSize, maxCombo, func(idx []int) bool {
		picked = picked[:0]
		for _, i := range idx {
			picked = append(picked, ings[i])
		}
		r := brew.Brew(picked)
		if r.IsNull || seen[r.Key()] {
			return false
		}
		seen[r.Key()] = true

		indices := append([]int(nil), idx...)
		ids := make([]string, len(indices))
		for k, i := range indices {
			ids[k] = ings[i].ID
		}
		entries = append(entries, Entry{
			Effects: r.Effects,
			Key:     r.Key(),
			Indices: indices,
			IDs:     ids,
			Size:    len(indices),
		})
		return false
	})
	return entries
}

// SelectTarget picks one entry uniformly at random, drawing only from hard
// entries when any exist. Reports false when entries is empty.
func SelectTarget(g *rng.Generator, entries []Entry) (Entry, bool) {
	var hard []Entry
	for _, e := range entries {
		if e.Hard() {
			hard = append(hard, e)
		}
	}
	pool := entries
	if len(hard) > 0 {
		pool = hard
	}
	if len(pool) == 0 {
		return Entry{}, false
	}
	return pool[g.Intn(len(pool))], true
}
