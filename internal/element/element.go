// Package element defines the closed universe of eight elements.
//
// Elements come in four opposing pairs. The pair list fixes the slot index
// used by deduction marks (0..3); the canonical order fixes how effect sets
// are sorted and displayed. The two orders are independent.
package element

import (
	"fmt"
	"sort"
	"strings"
)

// Element is one of the eight symbolic tokens.
type Element string

const (
	Sun    Element = "Sun"
	Moon   Element = "Moon"
	Air    Element = "Air"
	Earth  Element = "Earth"
	Fire   Element = "Fire"
	Water  Element = "Water"
	Plant  Element = "Plant"
	Animal Element = "Animal"
)

// Count is the number of elements.
const Count = 8

// Pair is an unordered opposing pair. Left and Right only name the slot
// positions that NotLeft/NotRight marks refer to.
type Pair struct {
	Left  Element `json:"left"`
	Right Element `json:"right"`
}

// Has reports whether e belongs to the pair.
func (p Pair) Has(e Element) bool {
	return e == p.Left || e == p.Right
}

// String renders the pair as "Left/Right".
func (p Pair) String() string {
	return string(p.Left) + "/" + string(p.Right)
}

// Pairs lists the opposing pairs in slot order.
var Pairs = []Pair{
	{Left: Sun, Right: Moon},
	{Left: Air, Right: Earth},
	{Left: Fire, Right: Water},
	{Left: Plant, Right: Animal},
}

// canonical is the fixed display and sort order.
var canonical = [Count]Element{Fire, Water, Air, Earth, Sun, Moon, Plant, Animal}

var (
	rank      = map[Element]int{}
	opponents = map[Element]Element{}
	slots     = map[Element]int{}
	byLower   = map[string]Element{}
)

func init() {
	for i, e := range canonical {
		rank[e] = i
		byLower[strings.ToLower(string(e))] = e
	}
	for i, p := range Pairs {
		opponents[p.Left] = p.Right
		opponents[p.Right] = p.Left
		slots[p.Left] = i
		slots[p.Right] = i
	}
}

// All returns the elements in canonical order.
func All() []Element {
	out := make([]Element, Count)
	copy(out, canonical[:])
	return out
}

// Valid reports whether e is one of the eight elements.
func (e Element) Valid() bool {
	_, ok := rank[e]
	return ok
}

// Rank returns e's position in canonical order, or -1 for unknown values.
func (e Element) Rank() int {
	if r, ok := rank[e]; ok {
		return r
	}
	return -1
}

// Opponent returns the other element of e's pair.
func (e Element) Opponent() Element {
	return opponents[e]
}

// Slot returns the index in Pairs of e's pair, or -1 for unknown values.
func (e Element) Slot() int {
	if s, ok := slots[e]; ok {
		return s
	}
	return -1
}

// Opposes reports whether a and b form an opposing pair.
func Opposes(a, b Element) bool {
	return a.Valid() && opponents[a] == b
}

// Conflicts reports whether candidate repeats or opposes any element of held.
// This is the acceptance check used when building ingredient compositions.
func Conflicts(held []Element, candidate Element) bool {
	for _, h := range held {
		if h == candidate || Opposes(h, candidate) {
			return true
		}
	}
	return false
}

// Sort orders elements canonically in place.
func Sort(els []Element) {
	sort.Slice(els, func(i, j int) bool { return rank[els[i]] < rank[els[j]] })
}

// Sorted returns a canonically ordered copy.
func Sorted(els []Element) []Element {
	out := make([]Element, len(els))
	copy(out, els)
	Sort(out)
	return out
}

// Key is an order-insensitive identity for an element set.
func Key(els []Element) string {
	sorted := Sorted(els)
	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = string(e)
	}
	return strings.Join(parts, "+")
}

// Parse accepts an element name in any letter case.
func Parse(s string) (Element, error) {
	if e, ok := byLower[strings.ToLower(strings.TrimSpace(s))]; ok {
		return e, nil
	}
	return "", fmt.Errorf("unknown element %q", s)
}

// ParseList parses a comma-separated element list and returns it canonically sorted.
func ParseList(s string) ([]Element, error) {
	var out []Element
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		e, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	Sort(out)
	return out, nil
}
