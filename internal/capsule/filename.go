package capsule

import (
	"strings"

	"github.com/roach88/pngcard/internal/payload"
)

// MaxFilenameStem bounds the sanitized name part of a capsule filename.
const MaxFilenameStem = 64

// Filename returns the conventional file name for a card:
// <sanitized-name>_<kind>.png. Spaces become underscores and anything
// outside [A-Za-z0-9_-] is dropped. An empty result falls back to "card".
func Filename(name string, kind payload.Kind) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
		if b.Len() == MaxFilenameStem {
			break
		}
	}

	stem := b.String()
	if stem == "" {
		stem = "card"
	}
	return stem + "_" + string(kind) + ".png"
}
