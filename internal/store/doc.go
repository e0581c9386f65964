// Package store provides SQLite-backed storage for sessions and the
// generation log.
//
// Tables:
//   - sessions: the seed triple {seed, daily, mode} keyed by a UUIDv7 id
//   - games: content fingerprints of generated games keyed by config
//     fingerprint, used to detect regeneration drift
//
// Generated content (ingredients, targets) is never stored. A session is
// replayed by regenerating its game from the seed triple.
//
// # Ordering
//
//   - All rows carry a seq from the store's logical Clock, never timestamps
//   - Listing queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
