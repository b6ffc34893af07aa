package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/payload"
)

// Resolution reports where an imported capsule landed in the library.
type Resolution struct {
	ID     string
	Reused bool // an entry with the same content hash already existed
}

// Resolve reconciles an imported capsule with the library.
//
// The payload's schema version must be readable by this build. A card whose
// content hash is already present resolves to the existing entry and nothing
// is written; otherwise the artwork (if any) and a new entry are inserted in
// one transaction.
func (s *Store) Resolve(ctx context.Context, res *capsule.Result) (Resolution, error) {
	if res == nil || res.Payload == nil {
		return Resolution{}, errors.New("resolve: nil import result")
	}
	p := res.Payload
	if err := payload.CheckVersion(p.SchemaVersion); err != nil {
		return Resolution{}, fmt.Errorf("resolve: %w", err)
	}

	contentHash, err := payload.ContentHash(p)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: %w", err)
	}

	cardJSON, err := marshalRecord(p.Card)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: %w", err)
	}
	worldJSON, err := marshalRecord(p.World)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: %w", err)
	}
	loreJSON, err := marshalLore(p.LoreEntries)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT id FROM cards WHERE content_hash = ?`, contentHash).Scan(&existing)
	switch {
	case err == nil:
		return Resolution{ID: existing, Reused: true}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return Resolution{}, fmt.Errorf("resolve: lookup content hash: %w", err)
	}

	var imageHash sql.NullString
	if len(res.Image) > 0 {
		imageHash = sql.NullString{String: ImageHash(res.Image), Valid: true}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO images (hash, data, size)
			VALUES (?, ?, ?)
			ON CONFLICT(hash) DO NOTHING
		`, imageHash.String, res.Image, len(res.Image))
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve: write image: %w", err)
		}
	}

	id := s.ids.Generate()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cards
		(id, kind, name, content_hash, schema_version, exported_at, card, world, lore_entries, image_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		string(p.Kind),
		payload.Name(p.Card),
		contentHash,
		p.SchemaVersion,
		formatTime(p.ExportedAt),
		cardJSON.String,
		worldJSON,
		loreJSON,
		imageHash,
		formatTime(s.now()),
	)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: write card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Resolution{}, fmt.Errorf("resolve: commit: %w", err)
	}
	return Resolution{ID: id}, nil
}
