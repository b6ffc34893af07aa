package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/pngcard/internal/payload"
)

// CardSummary describes a decoded card.
type CardSummary struct {
	ID            string           `json:"id,omitempty"`
	Kind          payload.Kind     `json:"kind"`
	Name          string           `json:"name"`
	SchemaVersion string           `json:"schema_version"`
	ExportedAt    string           `json:"exported_at"`
	ContentHash   string           `json:"content_hash"`
	Card          payload.Record   `json:"card"`
	World         payload.Record   `json:"world,omitempty"`
	LoreEntries   []payload.Record `json:"loreEntries,omitempty"`
}

func summarize(p *payload.Payload) (CardSummary, error) {
	hash, err := payload.ContentHash(p)
	if err != nil {
		return CardSummary{}, err
	}
	return CardSummary{
		Kind:          p.Kind,
		Name:          payload.Name(p.Card),
		SchemaVersion: p.SchemaVersion,
		ExportedAt:    p.ExportedAt.UTC().Format(payload.TimeFormat),
		ContentHash:   hash,
		Card:          p.Card,
		World:         p.World,
		LoreEntries:   p.LoreEntries,
	}, nil
}

// Text implements textRenderer.
func (s CardSummary) Text() string {
	var b strings.Builder
	if s.ID != "" {
		fmt.Fprintf(&b, "ID:           %s\n", s.ID)
	}
	fmt.Fprintf(&b, "Name:         %s\n", s.Name)
	fmt.Fprintf(&b, "Kind:         %s\n", s.Kind)
	fmt.Fprintf(&b, "Schema:       %s\n", s.SchemaVersion)
	fmt.Fprintf(&b, "Exported:     %s\n", s.ExportedAt)
	fmt.Fprintf(&b, "Content hash: %s\n", s.ContentHash)
	if d := payload.Description(s.Card); d != "" {
		fmt.Fprintf(&b, "Description:  %s\n", d)
	}
	if s.World != nil {
		world := payload.Name(s.World)
		if world == "" {
			world = "(unnamed)"
		}
		fmt.Fprintf(&b, "World:        %s\n", world)
	}
	if n := len(s.LoreEntries); n > 0 {
		fmt.Fprintf(&b, "Lore entries: %d\n", n)
	}
	return b.String()
}

func formatCreated(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
