package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON in the style of RFC 8785:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. U+2028 and U+2029 are written literally
//  4. No insignificant whitespace
//
// Strings are written verbatim so that a payload round-trips exactly. Use
// MarshalCanonicalNFC when the output feeds an identity hash.
func MarshalCanonical(v any) ([]byte, error) {
	enc := &canonicalEncoder{}
	if err := enc.value(v); err != nil {
		return nil, err
	}
	return enc.buf.Bytes(), nil
}

// MarshalCanonicalNFC is MarshalCanonical with every string and key NFC
// normalized, so visually identical text hashes identically.
func MarshalCanonicalNFC(v any) ([]byte, error) {
	enc := &canonicalEncoder{nfc: true}
	if err := enc.value(v); err != nil {
		return nil, err
	}
	return enc.buf.Bytes(), nil
}

type canonicalEncoder struct {
	buf bytes.Buffer
	nfc bool
}

func (e *canonicalEncoder) value(v any) error {
	switch val := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		if val {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case string:
		return e.string(val)
	case json.Number:
		if !validNumber(val) {
			return fmt.Errorf("invalid JSON number %q", string(val))
		}
		e.buf.WriteString(string(val))
	case []any:
		return e.array(len(val), func(i int) any { return val[i] })
	case []Record:
		return e.array(len(val), func(i int) any { return val[i] })
	case []string:
		return e.array(len(val), func(i int) any { return val[i] })
	case map[string]any:
		return e.object(val)
	default:
		n, err := numberOf(v)
		if err != nil {
			return err
		}
		e.buf.WriteString(string(n))
	}
	return nil
}

func (e *canonicalEncoder) array(n int, at func(int) any) error {
	e.buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.value(at(i)); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *canonicalEncoder) object(obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	values := make(map[string]any, len(obj))
	for k, v := range obj {
		if e.nfc {
			k = norm.NFC.String(k)
			if _, dup := values[k]; dup {
				return fmt.Errorf("keys collide after NFC normalization: %q", k)
			}
		}
		keys = append(keys, k)
		values[k] = v
	}
	// CRITICAL: RFC 8785 UTF-16 code unit ordering
	slices.SortFunc(keys, compareKeysUTF16)

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.string(k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		e.buf.WriteByte(':')
		if err := e.value(values[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// string writes s as a JSON string. Only the quote, backslash, and control
// characters (U+0000-U+001F) are escaped.
func (e *canonicalEncoder) string(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("string is not valid UTF-8: %q", s)
	}
	if e.nfc {
		s = norm.NFC.String(s)
	}

	const hex = "0123456789abcdef"
	e.buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		e.buf.WriteString(s[start:i])
		switch c {
		case '"', '\\':
			e.buf.WriteByte('\\')
			e.buf.WriteByte(c)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\f':
			e.buf.WriteString(`\f`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		default:
			e.buf.WriteString(`\u00`)
			e.buf.WriteByte(hex[c>>4])
			e.buf.WriteByte(hex[c&0xF])
		}
		start = i + 1
	}
	e.buf.WriteString(s[start:])
	e.buf.WriteByte('"')
	return nil
}

// compareKeysUTF16 compares strings by UTF-16 code units as required by
// RFC 8785. Go's native string order is UTF-8 byte order, which differs for
// characters above U+FFFF versus U+E000-U+FFFF.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
