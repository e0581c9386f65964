// Package brew evaluates the combination rule.
//
// Brewing tallies every element across the chosen ingredients. An element
// triggers when its count exceeds its opponent's by at least Threshold. The
// triggering elements, in canonical order, are the effects; no effects is a
// null potion. Because the margin is two, an element and its opponent can
// never trigger together.
package brew

import (
	"strings"

	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
)

// Threshold is the winning margin an element needs over its opponent.
const Threshold = 2

// Result is the outcome of a brew.
type Result struct {
	Effects []element.Element `json:"effects"`
	IsNull  bool              `json:"isNull"`
}

// Key is the order-insensitive identity of the effect set.
func (r Result) Key() string {
	return element.Key(r.Effects)
}

// Has reports whether e is among the effects.
func (r Result) Has(e element.Element) bool {
	for _, x := range r.Effects {
		if x == e {
			return true
		}
	}
	return false
}

// String renders the effects joined by "+", or "null".
func (r Result) String() string {
	if r.IsNull {
		return "null"
	}
	parts := make([]string, len(r.Effects))
	for i, e := range r.Effects {
		parts[i] = string(e)
	}
	return strings.Join(parts, "+")
}

// Tally counts element occurrences.
type Tally map[element.Element]int

// Add counts every element of els.
func (t Tally) Add(els ...element.Element) {
	for _, e := range els {
		t[e]++
	}
}

// Margin is count(e) - count(opponent(e)).
func (t Tally) Margin(e element.Element) int {
	return t[e] - t[e.Opponent()]
}

// Effects returns the triggering elements in canonical order.
func (t Tally) Effects() []element.Element {
	out := []element.Element{}
	for _, e := range element.All() {
		if t.Margin(e) >= Threshold {
			out = append(out, e)
		}
	}
	return out
}

// Result evaluates the tally.
func (t Tally) Result() Result {
	effects := t.Effects()
	return Result{Effects: effects, IsNull: len(effects) == 0}
}

// Brew evaluates a set of ingredients. Callers enforce the 2..maxCombo size;
// an empty input yields a null result.
func Brew(ings []ingredient.Ingredient) Result {
	t := Tally{}
	for _, ing := range ings {
		t.Add(ing.Elements[:]...)
	}
	return t.Result()
}

// Compositions evaluates raw element lists, one per ingredient.
func Compositions(lists [][]element.Element) Result {
	t := Tally{}
	for _, els := range lists {
		t.Add(els...)
	}
	return t.Result()
}

// Equal reports whether two effect sets contain exactly the same elements.
func Equal(a, b []element.Element) bool {
	if len(a) != len(b) {
		return false
	}
	return element.Key(a) == element.Key(b)
}
