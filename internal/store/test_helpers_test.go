package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/session"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testState returns a valid seed triple.
func testState(seed string) session.State {
	return session.State{Seed: seed, Mode: game.DefaultMode}
}
