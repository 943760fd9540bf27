// Package store provides SQLite-backed durable storage for the Steam app catalog.
//
// The store is a write-once-per-key table:
//   - steamapp(appid INTEGER PRIMARY KEY, name TEXT NULL)
//   - Rows are appended with ON CONFLICT(appid) DO NOTHING; the first writer wins
//   - Rows are never updated in place or deleted
//
// # Read Semantics
//
//   - Point lookups never fail for a missing key; GetByAppID synthesizes an
//     unnamed entry and GetByName returns nil
//   - Full scans are ordered by appid, which is the store iteration order used
//     by the search strategies
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The file's modification time is the catalog's staleness clock. See ModTime
// and Touch.
package store
