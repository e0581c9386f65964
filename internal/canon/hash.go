package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/brewlab/internal/game"
)

// Domain prefixes for content fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainGame   = "brewlab/game/v1"
	DomainConfig = "brewlab/config/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a generated game by content. Two games share a
// fingerprint exactly when their canonical JSON is identical.
func Fingerprint(g *game.Game) (string, error) {
	data, err := MarshalCanonical(g)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainGame, data), nil
}

// ConfigFingerprint identifies a normalized generation config.
func ConfigFingerprint(cfg game.GenConfig) (string, error) {
	data, err := MarshalCanonical(cfg)
	if err != nil {
		return "", fmt.Errorf("ConfigFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainConfig, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(g *game.Game) string {
	fp, err := Fingerprint(g)
	if err != nil {
		panic(err)
	}
	return fp
}
