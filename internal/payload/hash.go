package payload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCard = "pngcard/card/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash identifies what a payload carries: kind, card, world, and lore
// entries. exported_at and schema_version are excluded, so exporting the same
// card twice yields the same hash. Strings are NFC normalized first.
func ContentHash(p *Payload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("ContentHash: nil payload")
	}
	obj := map[string]any{
		"kind": string(p.Kind),
		"card": p.Card,
	}
	if p.World != nil {
		obj["world"] = p.World
	}
	if len(p.LoreEntries) > 0 {
		obj["loreEntries"] = p.LoreEntries
	}

	canonical, err := MarshalCanonicalNFC(obj)
	if err != nil {
		return "", fmt.Errorf("ContentHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCard, canonical), nil
}
