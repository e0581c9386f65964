package game

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey formats t as the UTC calendar day shared by all daily players.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailySeed derives the seed for the day containing t from a BLAKE2b-256
// hash of the date key, keyed by salt.
func DailySeed(t time.Time, salt string) string {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	day := DateKey(t)
	// New256 only fails for keys longer than blake2b.Size.
	h, err := blake2b.New256(key)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(day))
	return "daily-" + day + "-" + hex.EncodeToString(h.Sum(nil)[:6])
}

// DailyConfig returns the default-bounds config for the day containing t.
func DailyConfig(t time.Time, salt string) GenConfig {
	cfg := DefaultConfig(DailySeed(t, salt))
	cfg.Daily = true
	return cfg
}
