// Package deduce estimates brew outcomes from partially known compositions.
//
// Players record a Mark per (ingredient, pair) cell. An ingredient whose marks
// pin exactly three elements is resolved and brews exactly. Otherwise the
// estimator bounds each element's count and classifies it as certain or
// merely possible. The ambiguity flag is a conservative heuristic: it is set
// when nothing is confirmed or when possible-only elements outnumber certain
// ones.
package deduce

import (
	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
)

// Estimate is a preview of a brew under partial knowledge.
type Estimate struct {
	// Effects is Certain ∪ Possible in canonical order.
	Effects   []element.Element `json:"effects"`
	Certain   []element.Element `json:"certain"`
	Possible  []element.Element `json:"possible"`
	Ambiguous bool              `json:"ambiguous"`
	// Resolved lists the selected ids whose composition the marks pin.
	Resolved []string `json:"resolved"`
}

// ResolveKnownElements returns the composition pinned by one ingredient's
// marks, keyed by slot index into pairs. It reports false unless exactly
// three elements are pinned.
func ResolveKnownElements(marks map[int]Mark, pairs []element.Pair) ([]element.Element, bool) {
	pinned := make([]element.Element, 0, ingredient.Size)
	for slot, p := range pairs {
		if e, ok := marks[slot].Pins(p); ok {
			pinned = append(pinned, e)
		}
	}
	if len(pinned) != ingredient.Size {
		return nil, false
	}
	return element.Sorted(pinned), true
}

// EstimateOutcome previews the brew of the selected ingredients given the
// marks in sheet. It reports false when fewer than two ids are selected.
func EstimateOutcome(selected []string, sheet Sheet) (Estimate, bool) {
	if len(selected) < 2 {
		return Estimate{}, false
	}

	var (
		known      [][]element.Element
		resolved   = []string{}
		unresolved int
	)
	for _, id := range selected {
		els, ok := ResolveKnownElements(sheet[id], element.Pairs)
		if !ok {
			unresolved++
			continue
		}
		known = append(known, els)
		resolved = append(resolved, id)
	}

	if unresolved == 0 {
		r := brew.Compositions(known)
		return Estimate{
			Effects:   r.Effects,
			Certain:   r.Effects,
			Possible:  []element.Element{},
			Ambiguous: false,
			Resolved:  resolved,
		}, true
	}

	lo := brew.Tally{}
	for _, els := range known {
		lo.Add(els...)
	}
	hi := func(e element.Element) int { return lo[e] + unresolved }

	est := Estimate{
		Effects:  []element.Element{},
		Certain:  []element.Element{},
		Possible: []element.Element{},
		Resolved: resolved,
	}
	for _, e := range element.All() {
		o := e.Opponent()
		switch {
		case lo[e]-hi(o) >= brew.Threshold:
			est.Certain = append(est.Certain, e)
			est.Effects = append(est.Effects, e)
		case hi(e)-lo[o] >= brew.Threshold:
			est.Possible = append(est.Possible, e)
			est.Effects = append(est.Effects, e)
		}
	}
	est.Ambiguous = len(est.Effects) == 0 || len(est.Possible) > len(est.Certain)
	return est, true
}
