package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/session"
)

// SessionRecord is a stored seed triple with its id and write order.
type SessionRecord struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
	Seq   int64         `json:"seq"`
}

// CreateSession stores st under a freshly generated id.
func (s *Store) CreateSession(ctx context.Context, st session.State) (SessionRecord, error) {
	return s.SaveSession(ctx, s.ids.Generate(), st)
}

// SaveSession inserts or replaces the seed triple for id.
// The state is validated first; invalid states are never written.
func (s *Store) SaveSession(ctx context.Context, id string, st session.State) (SessionRecord, error) {
	if err := st.Validate(); err != nil {
		return SessionRecord{}, fmt.Errorf("save session: %w", err)
	}
	rec := SessionRecord{ID: id, State: st, Seq: s.clock.Next()}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, seed, daily, mode, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			daily = excluded.daily,
			mode = excluded.mode,
			seq = excluded.seq
	`, rec.ID, st.Seed, st.Daily, string(st.Mode), rec.Seq)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("save session: %w", err)
	}
	return rec, nil
}

// LoadSession returns the session stored under id.
// Reports false, with a nil error, when no such session exists.
func (s *Store) LoadSession(ctx context.Context, id string) (SessionRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, daily, mode, seq FROM sessions WHERE id = ?
	`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, false, nil
	}
	if err != nil {
		return SessionRecord{}, false, fmt.Errorf("load session: %w", err)
	}
	return rec, true, nil
}

// ListSessions returns stored sessions in write order.
// Returns an empty slice (not nil) when none exist.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, daily, mode, seq FROM sessions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []SessionRecord{}
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// DeleteSession removes a session. Reports whether one was removed.
func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var (
		rec  SessionRecord
		mode string
	)
	if err := row.Scan(&rec.ID, &rec.State.Seed, &rec.State.Daily, &mode, &rec.Seq); err != nil {
		return SessionRecord{}, err
	}
	rec.State.Mode = game.Mode(mode)
	return rec, nil
}
