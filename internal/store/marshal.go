package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/pngcard/internal/payload"
)

// marshalRecord converts a record to canonical JSON TEXT for storage.
// A nil record is stored as NULL.
func marshalRecord(rec payload.Record) (sql.NullString, error) {
	if rec == nil {
		return sql.NullString{}, nil
	}
	data, err := payload.MarshalCanonical(rec)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal record: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// marshalLore converts lore entries to canonical JSON TEXT. No entries is
// stored as NULL.
func marshalLore(entries []payload.Record) (sql.NullString, error) {
	if len(entries) == 0 {
		return sql.NullString{}, nil
	}
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = map[string]any(e)
	}
	data, err := payload.MarshalCanonical(list)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal lore entries: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalRecord parses JSON TEXT, keeping numbers as json.Number so that
// large integers and exact decimals survive.
func unmarshalRecord(data sql.NullString) (payload.Record, error) {
	if !data.Valid {
		return nil, nil
	}
	var rec payload.Record
	if err := decodeNumbers(data.String, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

func unmarshalLore(data sql.NullString) ([]payload.Record, error) {
	if !data.Valid {
		return nil, nil
	}
	var entries []payload.Record
	if err := decodeNumbers(data.String, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal lore entries: %w", err)
	}
	return entries, nil
}

func decodeNumbers(data string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	return dec.Decode(v)
}
