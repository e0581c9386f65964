package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/brewlab/internal/canon"
	"github.com/roach88/brewlab/internal/game"
)

// ErrFingerprintDrift is returned when a config regenerates to a game whose
// fingerprint differs from the one first logged for it.
var ErrFingerprintDrift = errors.New("generated game fingerprint drifted")

// GameRecord is one generation log entry. It identifies a game by content
// hash only; ingredients and targets are never stored.
type GameRecord struct {
	ConfigFingerprint string `json:"configFingerprint"`
	Fingerprint       string `json:"fingerprint"`
	Seed              string `json:"seed"`
	Seq               int64  `json:"seq"`
}

// RecordGame logs the fingerprint a config generated.
// The first fingerprint logged for a config is authoritative; a later,
// different one returns ErrFingerprintDrift. A seq is drawn only when a new
// row is written. Reports whether one was.
func (s *Store) RecordGame(ctx context.Context, rec GameRecord) (bool, error) {
	prev, ok, err := s.LookupGame(ctx, rec.ConfigFingerprint)
	if err != nil {
		return false, err
	}
	if ok {
		return false, checkDrift(prev, rec)
	}

	// ON CONFLICT covers a concurrent writer that inserted after the lookup.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO games (config_fingerprint, fingerprint, seed, seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(config_fingerprint) DO NOTHING
	`, rec.ConfigFingerprint, rec.Fingerprint, rec.Seed, s.clock.Next())
	if err != nil {
		return false, fmt.Errorf("record game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record game: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	prev, ok, err = s.LookupGame(ctx, rec.ConfigFingerprint)
	if err != nil || !ok {
		return false, err
	}
	return false, checkDrift(prev, rec)
}

func checkDrift(prev, rec GameRecord) error {
	if prev.Fingerprint != rec.Fingerprint {
		return fmt.Errorf("%w: seed %q logged %s, now %s",
			ErrFingerprintDrift, rec.Seed, prev.Fingerprint, rec.Fingerprint)
	}
	return nil
}

// LogGenerated records g as the game cfg generates. The config is
// fingerprinted after defaults are applied and its seed normalized.
func (s *Store) LogGenerated(ctx context.Context, cfg game.GenConfig, g *game.Game) (bool, error) {
	cfg = cfg.WithDefaults()
	cfg.Seed = g.Seed
	cfp, err := canon.ConfigFingerprint(cfg)
	if err != nil {
		return false, err
	}
	fp, err := canon.Fingerprint(g)
	if err != nil {
		return false, err
	}
	return s.RecordGame(ctx, GameRecord{ConfigFingerprint: cfp, Fingerprint: fp, Seed: g.Seed})
}

// LookupGame returns the log entry for a config fingerprint.
func (s *Store) LookupGame(ctx context.Context, configFingerprint string) (GameRecord, bool, error) {
	var rec GameRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT config_fingerprint, fingerprint, seed, seq FROM games WHERE config_fingerprint = ?
	`, configFingerprint).Scan(&rec.ConfigFingerprint, &rec.Fingerprint, &rec.Seed, &rec.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, false, nil
	}
	if err != nil {
		return GameRecord{}, false, fmt.Errorf("lookup game: %w", err)
	}
	return rec, true, nil
}

// GamesForSeed returns log entries for a normalized seed in write order.
func (s *Store) GamesForSeed(ctx context.Context, seed string) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT config_fingerprint, fingerprint, seed, seq FROM games
		WHERE seed = ?
		ORDER BY seq ASC, config_fingerprint COLLATE BINARY ASC
	`, seed)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var rec GameRecord
		if err := rows.Scan(&rec.ConfigFingerprint, &rec.Fingerprint, &rec.Seed, &rec.Seq); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return out, nil
}
