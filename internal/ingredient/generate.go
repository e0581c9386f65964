package ingredient

import (
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/rng"
)

var (
	namePrefixes = []string{"Bl", "Cr", "Dr", "Fl", "Gl", "Gr", "Kr", "Mor", "Sn", "Th", "Vel", "Wr", "Z"}
	nameVowels   = []string{"a", "e", "i", "o", "u", "ae", "ei", "ou", "y"}
	nameSuffixes = []string{"mroot", "thorn", "cap", "moss", "wort", "leaf", "bane", "dust", "fang", "shade", "bloom"}
)

// NameFor returns the display name for a zero-based creation index.
// Names are cosmetic and carry no information about the composition.
func NameFor(index int) string {
	if index < 0 {
		index = -index
	}
	return namePrefixes[index%len(namePrefixes)] +
		nameVowels[index%len(nameVowels)] +
		nameSuffixes[index%len(nameSuffixes)]
}

// Generate draws a population of n ingredients and makes every triple unique.
func Generate(g *rng.Generator, n int) []Ingredient {
	out := make([]Ingredient, n)
	for k := 0; k < n; k++ {
		out[k] = Ingredient{ID: IDFor(k), Name: NameFor(k)}
		copy(out[k].Elements[:], RandomElements(g))
	}
	Dedupe(g, out)
	return out
}

// Synthesize creates the ingredient at index that is guaranteed to contain
// required, plus two further compatible elements drawn from g. The opponent
// of required is never chosen. Triples already present in existing are
// avoided when any alternative remains.
func Synthesize(g *rng.Generator, index int, required element.Element, existing []Ingredient) Ingredient {
	taken := keys(existing)
	ing := Ingredient{ID: IDFor(index), Name: NameFor(index)}

	els := completeWith(g, []element.Element{required})
	for tries := 0; taken[element.Key(els)] && tries < maxRedraws; tries++ {
		els = completeWith(g, []element.Element{required})
	}
	if taken[element.Key(els)] {
		if alt, ok := firstUnused(taken, required); ok {
			els = alt
		}
	}
	copy(ing.Elements[:], els)
	return ing
}

// Dedupe rewrites ingredients in place until no two share a triple.
//
// Ingredients are visited in order; when one repeats an earlier triple, a
// random slot is replaced by a random element that is neither present nor
// opposed to the two kept elements, until the triple is unique. Redraws are
// bounded; past the bound the first unused triple in canonical order is taken.
func Dedupe(g *rng.Generator, ings []Ingredient) {
	taken := make(map[string]bool, len(ings))
	for k := range ings {
		els := ings[k].List()
		for tries := 0; taken[element.Key(els)] && tries < maxRedraws; tries++ {
			els = replaceSlot(g, els)
		}
		if taken[element.Key(els)] {
			if alt, ok := firstUnused(taken, ""); ok {
				els = alt
			}
		}
		copy(ings[k].Elements[:], element.Sorted(els))
		taken[element.Key(els)] = true
	}
}

// replaceSlot swaps one randomly chosen element for a compatible newcomer.
func replaceSlot(g *rng.Generator, els []element.Element) []element.Element {
	slot := g.Intn(len(els))
	kept := make([]element.Element, 0, len(els)-1)
	for k, e := range els {
		if k != slot {
			kept = append(kept, e)
		}
	}

	var candidates []element.Element
	for _, e := range element.All() {
		if e == els[slot] || element.Conflicts(kept, e) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return els
	}
	out := append(kept, candidates[g.Intn(len(candidates))])
	element.Sort(out)
	return out
}

// firstUnused scans every valid triple in canonical order and returns the
// first one not in taken. When required is set, only triples holding it qualify.
func firstUnused(taken map[string]bool, required element.Element) ([]element.Element, bool) {
	all := element.All()
	for a := 0; a < len(all); a++ {
		for b := a + 1; b < len(all); b++ {
			for c := b + 1; c < len(all); c++ {
				els := []element.Element{all[a], all[b], all[c]}
				if element.Opposes(els[0], els[1]) || element.Opposes(els[0], els[2]) || element.Opposes(els[1], els[2]) {
					continue
				}
				if required != "" && els[0] != required && els[1] != required && els[2] != required {
					continue
				}
				if !taken[element.Key(els)] {
					return els, true
				}
			}
		}
	}
	return nil, false
}

func keys(ings []Ingredient) map[string]bool {
	out := make(map[string]bool, len(ings))
	for _, ing := range ings {
		out[ing.Key()] = true
	}
	return out
}
