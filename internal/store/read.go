package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/pngcard/internal/payload"
)

var (
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("card not found")

	// ErrNoImage is returned by Image for entries imported without artwork.
	ErrNoImage = errors.New("card has no stored image")
)

// timeLayout is fixed-width so that TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one card in the library.
type Entry struct {
	ID            string
	Kind          payload.Kind
	Name          string
	ContentHash   string
	SchemaVersion string
	ExportedAt    time.Time
	Card          payload.Record
	World         payload.Record
	LoreEntries   []payload.Record
	ImageHash     string // empty when no artwork was stored
	CreatedAt     time.Time
}

// Payload rebuilds the capsule payload the entry was imported from.
func (e *Entry) Payload() *payload.Payload {
	return &payload.Payload{
		Kind:          e.Kind,
		SchemaVersion: e.SchemaVersion,
		ExportedAt:    e.ExportedAt,
		Card:          e.Card,
		World:         e.World,
		LoreEntries:   e.LoreEntries,
	}
}

const entryColumns = `id, kind, name, content_hash, schema_version, exported_at, card, world, lore_entries, image_hash, created_at`

// Get returns the entry with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM cards WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns entries of the given kind, or every entry when kind is
// empty, ordered by created_at ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) when the library has no matching entries.
func (s *Store) List(ctx context.Context, kind payload.Kind) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM cards`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return entries, nil
}

// Image returns the stored artwork of an entry: the capsule PNG exactly as
// it was imported.
func (s *Store) Image(ctx context.Context, id string) ([]byte, error) {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT image_hash FROM cards WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query card image: %w", err)
	}
	if !hash.Valid {
		return nil, ErrNoImage
	}

	var data []byte
	if err := s.db.QueryRowContext(ctx, `SELECT data FROM images WHERE hash = ?`, hash.String).Scan(&data); err != nil {
		return nil, fmt.Errorf("query image %s: %w", hash.String, err)
	}
	return data, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e                     Entry
		kind                  string
		exportedAt, createdAt string
		card                  string
		world, lore           sql.NullString
		imageHash             sql.NullString
	)
	err := row.Scan(&e.ID, &kind, &e.Name, &e.ContentHash, &e.SchemaVersion,
		&exportedAt, &card, &world, &lore, &imageHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}

	e.Kind = payload.Kind(kind)
	e.ImageHash = imageHash.String
	if e.ExportedAt, err = parseTime(exportedAt); err != nil {
		return nil, fmt.Errorf("card %s: exported_at: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("card %s: created_at: %w", e.ID, err)
	}
	if e.Card, err = unmarshalRecord(sql.NullString{String: card, Valid: true}); err != nil {
		return nil, fmt.Errorf("card %s: %w", e.ID, err)
	}
	if e.World, err = unmarshalRecord(world); err != nil {
		return nil, fmt.Errorf("card %s: %w", e.ID, err)
	}
	if e.LoreEntries, err = unmarshalLore(lore); err != nil {
		return nil, fmt.Errorf("card %s: %w", e.ID, err)
	}
	return &e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
