package game

import (
	"fmt"
	"strings"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
)

// Mode selects which objective a session plays.
type Mode string

const (
	// ModeProfileHunt asks for the full composition of one ingredient.
	ModeProfileHunt Mode = "profile-hunt"
	// ModeFullMapping asks for the composition of every ingredient.
	ModeFullMapping Mode = "full-mapping"
	// ModeExactCraft asks for a brew matching the target exactly.
	ModeExactCraft Mode = "exact-craft"
)

// DefaultMode is used when a session names none.
const DefaultMode = ModeExactCraft

// Modes lists all modes in display order.
var Modes = []Mode{ModeProfileHunt, ModeFullMapping, ModeExactCraft}

// ParseMode parses a mode name; empty selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMode, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "mode", Value: s, Message: fmt.Sprintf("must be one of %v", Modes)}
}

// CheckProfile reports whether marks identify the profile-hunt ingredient:
// its three elements pinned and None on the pair it lacks.
func (g *Game) CheckProfile(marks map[int]deduce.Mark) bool {
	els, ok := deduce.ResolveKnownElements(marks, element.Pairs)
	if !ok || element.Key(els) != g.ProfileHuntTarget.Key() {
		return false
	}
	for slot, p := range element.Pairs {
		held := false
		for _, e := range els {
			held = held || p.Has(e)
		}
		if !held && marks[slot] != deduce.None {
			return false
		}
	}
	return true
}

// MappingScore grades a full-mapping sheet.
type MappingScore struct {
	Correct int      `json:"correct"`
	Total   int      `json:"total"`
	Wrong   []string `json:"wrong"`
}

// Solved reports whether every ingredient is mapped correctly.
func (s MappingScore) Solved() bool {
	return s.Total > 0 && s.Correct == s.Total
}

// CheckMapping grades sheet against the true profiles. An ingredient counts
// as correct only when all of its slots match.
func (g *Game) CheckMapping(sheet deduce.Sheet) MappingScore {
	score := MappingScore{Total: len(g.FullMappingProfiles), Wrong: []string{}}
	for _, p := range g.FullMappingProfiles {
		ok := true
		for slot, want := range p.Slots {
			if sheet.Get(p.ID, slot) != want {
				ok = false
				break
			}
		}
		if ok {
			score.Correct++
		} else {
			score.Wrong = append(score.Wrong, p.ID)
		}
	}
	return score
}

// CheckCraft reports whether ids brew exactly the target.
func (g *Game) CheckCraft(ids []string) (bool, error) {
	r, err := g.Brew(ids)
	if err != nil {
		return false, err
	}
	return brew.Equal(r.Effects, g.TargetOrder), nil
}
