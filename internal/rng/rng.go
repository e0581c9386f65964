// Package rng provides the seeded random stream every generation step draws from.
//
// Seeds are free-form strings. They are NFC-normalized and trimmed, hashed to a
// uint32 with 32-bit FNV-1a, and used to seed a Mulberry32 generator. All
// arithmetic is uint32 with explicit wraparound, so two generators built from
// the same seed string produce bit-identical sequences on every platform.
//
// A Generator is not safe for concurrent use. Each generation pass owns its own.
package rng

import (
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of a seed string: surrounding
// whitespace removed and Unicode composed (NFC). Seeds typed on different
// platforms hash identically once normalized.
func Normalize(seed string) string {
	return norm.NFC.String(strings.TrimSpace(seed))
}

// Hash folds a seed string into a uint32 with FNV-1a
// (xor each byte, multiply by the FNV prime, mod 2^32).
func Hash(seed string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(Normalize(seed)))
	return h.Sum32()
}

// Salt derives the n-th retry variant of a seed ("seed#n").
func Salt(seed string, n int) string {
	return fmt.Sprintf("%s#%d", Normalize(seed), n)
}

// SaltLabel derives a named variant of a seed ("seed#label").
func SaltLabel(seed, label string) string {
	return Normalize(seed) + "#" + label
}

// Generator is a Mulberry32 pseudo-random stream.
type Generator struct {
	state uint32
	draws int64
}

// New creates a generator from a numeric seed.
func New(seed uint32) *Generator {
	return &Generator{state: seed}
}

// FromString creates a generator seeded with Hash(seed).
func FromString(seed string) *Generator {
	return New(Hash(seed))
}

// next advances the state and returns the next 32-bit output.
func (g *Generator) next() uint32 {
	g.draws++
	g.state += 0x6D2B79F5
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 {
	return float64(g.next()) / 4294967296.0
}

// Intn returns a value in [0, n). Returns 0 when n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Float64() * float64(n))
}

// Draws reports how many values the generator has produced.
func (g *Generator) Draws() int64 {
	return g.draws
}

// Shuffle permutes n items in place with Fisher–Yates, calling swap for each exchange.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		swap(i, j)
	}
}
