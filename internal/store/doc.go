// Package store provides the SQLite-backed run journal.
//
// The journal is append-only and keyed by run id:
//   - runs: one row per run (seed, configuration)
//   - snapshots: one row per completed tick, with the full snapshot body
//   - messages: every message published during the run, by sequence
//   - labels: the derived label set after each rule pass
//
// # Ordering
//
// All reads are ordered by logical position (tick, seq), never by wall
// time, so reading a run back reproduces the order it was recorded in.
//
// # Payload Encoding
//
// Message payloads are stored as canonical JSON (sorted keys, NFC
// strings) so identical payloads are byte-identical in the database.
//
// # Drivers
//
// Open accepts either "sqlite3" (github.com/mattn/go-sqlite3, cgo) or
// "sqlite" (modernc.org/sqlite, pure Go). Both get the same pragmas:
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
