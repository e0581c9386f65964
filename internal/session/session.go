// Package session carries the persisted seed triple {seed, daily, mode}.
//
// A session never stores ingredients or targets: the game is regenerated from
// the triple on every load.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/rng"
)

// State is the seed triple. Its JSON form is the persisted document.
type State struct {
	Seed  string    `json:"seed"`
	Daily bool      `json:"daily"`
	Mode  game.Mode `json:"mode"`
}

// New returns a normalized, validated state.
func New(seed string, daily bool, mode string) (State, error) {
	m, err := game.ParseMode(mode)
	if err != nil {
		return State{}, err
	}
	st := State{Seed: rng.Normalize(seed), Daily: daily, Mode: m}
	if err := st.Validate(); err != nil {
		return State{}, err
	}
	return st, nil
}

// Validate checks the seed is non-empty and the mode is known.
func (s State) Validate() error {
	if rng.Normalize(s.Seed) == "" {
		return &game.ValidationError{Field: "seed", Value: s.Seed, Message: "must not be empty"}
	}
	if _, err := game.ParseMode(string(s.Mode)); err != nil {
		return err
	}
	return nil
}

// Config returns the generation config the state regenerates from.
func (s State) Config() game.GenConfig {
	cfg := game.DefaultConfig(s.Seed)
	cfg.Daily = s.Daily
	return cfg
}

// Game regenerates the session's game.
func (s State) Game() (*game.Game, error) {
	return game.Generate(s.Config())
}

// Marshal encodes the persisted JSON document.
func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes and validates a persisted JSON document.
func Unmarshal(data []byte) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return New(st.Seed, st.Daily, string(st.Mode))
}
