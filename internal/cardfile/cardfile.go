// Package cardfile loads card input documents from YAML, JSON or JSONC
// files for export.
//
// A document has the shape:
//
//	kind: character_card
//	card: {name: Aria, description: A wandering mage.}
//	world: {...}            # optional
//	lore_entries: [{...}]   # optional
//	image: art/aria.png     # optional, relative to the document
package cardfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/roach88/pngcard/internal/payload"
)

// Format is an input document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json" // JSON with comments and trailing commas
)

// Input is a parsed card document with records normalized to their
// JSON-compatible form.
type Input struct {
	Kind        payload.Kind
	Card        payload.Record
	World       payload.Record
	LoreEntries []payload.Record

	// Image is the artwork path. Load resolves it against the document's
	// directory; Parse leaves it as written.
	Image string
}

// document mirrors the on-disk layout for both syntaxes.
type document struct {
	Kind        string           `yaml:"kind" json:"kind"`
	Card        map[string]any   `yaml:"card" json:"card"`
	World       map[string]any   `yaml:"world,omitempty" json:"world,omitempty"`
	LoreEntries []map[string]any `yaml:"lore_entries,omitempty" json:"lore_entries,omitempty"`
	Image       string           `yaml:"image,omitempty" json:"image,omitempty"`
}

// FormatFromPath picks the syntax from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported card file extension %q (want .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}
}

// Load reads and parses a card document.
func Load(path string) (*Input, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card file: %w", err)
	}

	in, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if in.Image != "" && !filepath.IsAbs(in.Image) {
		in.Image = filepath.Join(filepath.Dir(path), in.Image)
	}
	return in, nil
}

// Parse decodes a card document. Unknown top-level fields are rejected.
func Parse(data []byte, format Format) (*Input, error) {
	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown card file format %q", format)
	}
	return doc.input()
}

func (d *document) input() (*Input, error) {
	if strings.TrimSpace(d.Kind) == "" {
		return nil, fmt.Errorf("kind is required")
	}
	kind, err := payload.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	if d.Card == nil {
		return nil, fmt.Errorf("card is required")
	}

	in := &Input{Kind: kind, Image: d.Image}
	if in.Card, err = payload.NormalizeRecord(d.Card); err != nil {
		return nil, fmt.Errorf("card: %w", err)
	}
	if in.World, err = payload.NormalizeRecord(d.World); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	for i, entry := range d.LoreEntries {
		if entry == nil {
			return nil, fmt.Errorf("lore_entries[%d]: entry is null", i)
		}
		rec, err := payload.NormalizeRecord(entry)
		if err != nil {
			return nil, fmt.Errorf("lore_entries[%d]: %w", i, err)
		}
		in.LoreEntries = append(in.LoreEntries, rec)
	}
	return in, nil
}
