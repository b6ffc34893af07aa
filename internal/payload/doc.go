// Package payload defines the versioned record embedded in a capsule and its
// JSON serialization.
//
// This package imports nothing internal; the codec, renderer, and library all
// build on it.
//
// Key design constraints:
//   - schema_version is always present; CheckVersion refuses unknown majors
//   - Card, world, and lore records are opaque JSON-compatible values
//   - Numbers are carried as json.Number so they round-trip verbatim
//   - Serialize emits canonical JSON (sorted keys, no HTML escaping)
//   - Deserialize never panics; every failure is a *DecodeError
package payload
