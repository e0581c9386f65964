package deduce

import (
	"fmt"
	"strings"

	"github.com/roach88/brewlab/internal/element"
)

// Mark is a player's belief about one pair-slot of one ingredient.
//
// Besides the four state values, a Mark may hold the name of an element,
// meaning "this ingredient holds that element of the slot's pair".
type Mark string

const (
	Unknown  Mark = "Unknown"
	None     Mark = "None"
	NotLeft  Mark = "NotLeft"
	NotRight Mark = "NotRight"
)

// MarkOf returns the explicit element mark for e.
func MarkOf(e element.Element) Mark {
	return Mark(e)
}

// ParseMark parses a mark case-insensitively. The empty string is Unknown.
func ParseMark(s string) (Mark, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Unknown, nil
	}
	for _, m := range []Mark{Unknown, None, NotLeft, NotRight} {
		if strings.EqualFold(t, string(m)) {
			return m, nil
		}
	}
	e, err := element.Parse(t)
	if err != nil {
		return "", fmt.Errorf("invalid mark %q", s)
	}
	return Mark(e), nil
}

// UnmarshalText parses text with ParseMark, so JSON and YAML sheets accept
// any casing.
func (m *Mark) UnmarshalText(text []byte) error {
	p, err := ParseMark(string(text))
	if err != nil {
		return err
	}
	*m = p
	return nil
}

// Element returns the element an explicit mark names.
func (m Mark) Element() (element.Element, bool) {
	e := element.Element(m)
	return e, e.Valid()
}

// Valid reports whether m is a state value or an element name.
func (m Mark) Valid() bool {
	switch m {
	case "", Unknown, None, NotLeft, NotRight:
		return true
	}
	_, ok := m.Element()
	return ok
}

// Pins returns the element m fixes for a slot whose pair is p. Only an
// explicit mark naming a member of p pins anything.
func (m Mark) Pins(p element.Pair) (element.Element, bool) {
	e, ok := m.Element()
	if !ok || !p.Has(e) {
		return "", false
	}
	return e, true
}

// Sheet holds marks per ingredient id, then per pair slot index.
type Sheet map[string]map[int]Mark

// Set records a mark, allocating the ingredient row as needed.
func (s Sheet) Set(id string, slot int, m Mark) {
	row, ok := s[id]
	if !ok {
		row = map[int]Mark{}
		s[id] = row
	}
	row[slot] = m
}

// Get returns the mark for a cell; missing cells are Unknown.
func (s Sheet) Get(id string, slot int) Mark {
	if m, ok := s[id][slot]; ok && m != "" {
		return m
	}
	return Unknown
}

// Validate checks every cell holds a known mark and a slot in range.
func (s Sheet) Validate() error {
	for id, row := range s {
		for slot, m := range row {
			if slot < 0 || slot >= len(element.Pairs) {
				return fmt.Errorf("ingredient %s: slot %d out of range", id, slot)
			}
			if !m.Valid() {
				return fmt.Errorf("ingredient %s slot %d: invalid mark %q", id, slot, string(m))
			}
			if e, ok := m.Element(); ok && !element.Pairs[slot].Has(e) {
				return fmt.Errorf("ingredient %s slot %d: %s is not in pair %s", id, slot, e, element.Pairs[slot])
			}
		}
	}
	return nil
}

// TrueMarks returns the fully correct marks for a composition: the held
// element of each pair, or None for the pair the composition lacks.
func TrueMarks(els []element.Element) []Mark {
	out := make([]Mark, len(element.Pairs))
	for slot, p := range element.Pairs {
		out[slot] = None
		for _, e := range els {
			if p.Has(e) {
				out[slot] = Mark(e)
				break
			}
		}
	}
	return out
}
