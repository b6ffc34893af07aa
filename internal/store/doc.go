// Package store provides the SQLite-backed card library.
//
// Imported capsules are reconciled against the library by content hash: a
// card that is already present resolves to its existing entry, anything else
// becomes a new entry with a UUIDv7 id. Artwork (the full capsule PNG) is
// stored once per distinct byte sequence, keyed by a BLAKE3 digest.
//
// Card, world and lore records are stored as canonical JSON TEXT and read
// back with json.Number, so a stored payload compares equal to the one that
// was imported.
//
// # Ordering
//
// List results are ordered by created_at ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
