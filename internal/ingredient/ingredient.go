// Package ingredient generates the ingredient population of a puzzle.
//
// Every ingredient holds exactly three elements, no two of which oppose each
// other. Within a population no two ingredients share the same triple.
package ingredient

import (
	"fmt"
	"strings"

	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/rng"
)

// Size is the fixed number of elements per ingredient.
const Size = 3

// maxRedraws bounds the random repair of a duplicate triple before falling
// back to a deterministic scan of all valid triples.
const maxRedraws = 64

// Ingredient is immutable once created.
type Ingredient struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Elements [Size]element.Element `json:"elements"`
}

// New builds an ingredient, storing its elements in canonical order.
// Returns an error if the composition is not three distinct non-opposing elements.
func New(id, name string, els []element.Element) (Ingredient, error) {
	if len(els) != Size {
		return Ingredient{}, fmt.Errorf("ingredient %s: need %d elements, got %d", id, Size, len(els))
	}
	var held []element.Element
	for _, e := range els {
		if !e.Valid() {
			return Ingredient{}, fmt.Errorf("ingredient %s: unknown element %q", id, e)
		}
		if element.Conflicts(held, e) {
			return Ingredient{}, fmt.Errorf("ingredient %s: %s conflicts with %v", id, e, held)
		}
		held = append(held, e)
	}
	ing := Ingredient{ID: id, Name: name}
	copy(ing.Elements[:], element.Sorted(held))
	return ing, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNew(id, name string, els ...element.Element) Ingredient {
	ing, err := New(id, name, els)
	if err != nil {
		panic(err)
	}
	return ing
}

// List returns the elements as a slice.
func (i Ingredient) List() []element.Element {
	out := make([]element.Element, Size)
	copy(out, i.Elements[:])
	return out
}

// Has reports whether the ingredient contains e.
func (i Ingredient) Has(e element.Element) bool {
	for _, x := range i.Elements {
		if x == e {
			return true
		}
	}
	return false
}

// Key is the order-insensitive identity of the element triple.
func (i Ingredient) Key() string {
	return element.Key(i.Elements[:])
}

// String renders "Name [A B C]".
func (i Ingredient) String() string {
	parts := make([]string, Size)
	for k, e := range i.Elements {
		parts[k] = string(e)
	}
	return fmt.Sprintf("%s [%s]", i.Name, strings.Join(parts, " "))
}

// IDFor returns the ingredient id for a zero-based creation index.
func IDFor(index int) string {
	return fmt.Sprintf("ing-%02d", index+1)
}

// IDs returns the ids of ings in order.
func IDs(ings []Ingredient) []string {
	out := make([]string, len(ings))
	for k, ing := range ings {
		out[k] = ing.ID
	}
	return out
}

// Index maps ingredient ids to their position in ings.
func Index(ings []Ingredient) map[string]int {
	out := make(map[string]int, len(ings))
	for k, ing := range ings {
		out[ing.ID] = k
	}
	return out
}

// RandomElements draws three mutually compatible elements.
//
// The eight elements are shuffled and scanned in shuffled order, accepting
// each candidate that does not conflict with those already held. A full scan
// always yields three; the rejection loop that follows only runs if it does not.
func RandomElements(g *rng.Generator) []element.Element {
	return completeWith(g, nil)
}

// completeWith extends held to Size elements using the shuffle-scan draw.
func completeWith(g *rng.Generator, held []element.Element) []element.Element {
	out := append([]element.Element(nil), held...)
	pool := element.All()
	g.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	for _, e := range pool {
		if len(out) == Size {
			break
		}
		if !element.Conflicts(out, e) {
			out = append(out, e)
		}
	}
	for len(out) < Size {
		e := pool[g.Intn(len(pool))]
		if !element.Conflicts(out, e) {
			out = append(out, e)
		}
	}
	element.Sort(out)
	return out
}
