package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TimeFormat is the ISO-8601 layout used for exported_at (millisecond
// precision, always UTC).
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Payload is the record embedded in a capsule.
type Payload struct {
	Kind          Kind      `json:"kind"`
	SchemaVersion string    `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`
	Card          Record    `json:"card"`
	World         Record    `json:"world,omitempty"`
	LoreEntries   []Record  `json:"loreEntries,omitempty"`
}

// New builds a payload tagged with the current SchemaVersion. Records are
// normalized to their JSON-compatible form so that a decoded copy compares
// equal to the original.
func New(kind Kind, exportedAt time.Time, card, world Record, lore []Record) (*Payload, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", kind)}
	}
	if card == nil {
		return nil, &ValidationError{Field: "card", Message: "card is required"}
	}

	p := &Payload{
		Kind:          kind,
		SchemaVersion: SchemaVersion,
		ExportedAt:    exportedAt.UTC().Truncate(time.Millisecond),
	}
	var err error
	if p.Card, err = NormalizeRecord(card); err != nil {
		return nil, &ValidationError{Field: "card", Message: err.Error()}
	}
	if p.World, err = NormalizeRecord(world); err != nil {
		return nil, &ValidationError{Field: "world", Message: err.Error()}
	}
	if len(lore) > 0 {
		p.LoreEntries = make([]Record, len(lore))
		for i, entry := range lore {
			if entry == nil {
				return nil, &ValidationError{Field: fmt.Sprintf("loreEntries[%d]", i), Message: "entry is null"}
			}
			if p.LoreEntries[i], err = NormalizeRecord(entry); err != nil {
				return nil, &ValidationError{Field: fmt.Sprintf("loreEntries[%d]", i), Message: err.Error()}
			}
		}
	}
	return p, nil
}

// envelopeMap converts p to the map that is serialized. Empty optional
// fields are omitted.
func (p *Payload) envelopeMap() map[string]any {
	m := map[string]any{
		"kind":           string(p.Kind),
		"schema_version": p.SchemaVersion,
		"exported_at":    p.ExportedAt.UTC().Format(TimeFormat),
		"card":           p.Card,
	}
	if p.World != nil {
		m["world"] = p.World
	}
	if len(p.LoreEntries) > 0 {
		m["loreEntries"] = p.LoreEntries
	}
	return m
}

// Serialize emits p as canonical UTF-8 JSON.
func Serialize(p *Payload) ([]byte, error) {
	if p == nil {
		return nil, &ValidationError{Field: "payload", Message: "nil payload"}
	}
	if !p.Kind.Valid() {
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", p.Kind)}
	}
	if strings.TrimSpace(p.SchemaVersion) == "" {
		return nil, &ValidationError{Field: "schema_version", Message: "schema_version is required"}
	}
	if p.Card == nil {
		return nil, &ValidationError{Field: "card", Message: "card is required"}
	}

	data, err := MarshalCanonical(p.envelopeMap())
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}
	return data, nil
}

// wirePayload mirrors the JSON envelope for decoding.
type wirePayload struct {
	Kind          string           `json:"kind"`
	SchemaVersion string           `json:"schema_version"`
	ExportedAt    string           `json:"exported_at"`
	Card          map[string]any   `json:"card"`
	World         map[string]any   `json:"world"`
	LoreEntries   []map[string]any `json:"loreEntries"`
}

// Deserialize parses capsule text. Failures are always *DecodeError.
//
// The schema version is checked for shape only; whether this build can
// interpret it is the caller's decision (see CheckVersion).
func Deserialize(data []byte) (*Payload, error) {
	if !utf8.Valid(data) {
		return nil, &DecodeError{Reason: ReasonInvalidUTF8}
	}
	if !json.Valid(data) {
		return nil, &DecodeError{Reason: ReasonInvalidJSON, Err: syntaxError(data)}
	}
	if err := ValidateEnvelope(data); err != nil {
		return nil, &DecodeError{Reason: ReasonSchema, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var w wirePayload
	if err := dec.Decode(&w); err != nil {
		return nil, &DecodeError{Reason: ReasonInvalidJSON, Err: err}
	}

	// An open struct is concrete, so the schema alone cannot require card.
	if w.Card == nil {
		return nil, &DecodeError{Reason: ReasonSchema, Err: errors.New("card: field is required")}
	}

	exportedAt, err := time.Parse(time.RFC3339Nano, w.ExportedAt)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonSchema, Err: fmt.Errorf("exported_at: %w", err)}
	}

	p := &Payload{
		Kind:          Kind(w.Kind),
		SchemaVersion: w.SchemaVersion,
		ExportedAt:    exportedAt.UTC(),
		Card:          w.Card,
		World:         w.World,
	}
	if len(w.LoreEntries) > 0 {
		p.LoreEntries = make([]Record, len(w.LoreEntries))
		for i, entry := range w.LoreEntries {
			p.LoreEntries[i] = entry
		}
	}
	return p, nil
}

// syntaxError re-runs the standard decoder to get a positioned message.
func syntaxError(data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return fmt.Errorf("offset %d: %w", se.Offset, se)
	}
	if err == nil {
		return errors.New("invalid JSON")
	}
	return err
}

// Name returns the record's "name" field, or "" when absent or not a string.
func Name(rec Record) string {
	return stringField(rec, "name")
}

// Description returns the record's "description" field, or "".
func Description(rec Record) string {
	return stringField(rec, "description")
}

func stringField(rec Record, key string) string {
	if rec == nil {
		return ""
	}
	s, _ := rec[key].(string)
	return s
}
