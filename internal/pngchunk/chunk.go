package pngchunk

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Signature is the fixed 8-byte PNG magic.
const Signature = "\x89PNG\r\n\x1a\n"

// Chunk types used by this package.
const (
	TypeIHDR = "IHDR"
	TypeIEND = "IEND"
	TypeText = "tEXt"
)

const (
	signatureLen   = len(Signature)
	chunkOverhead  = 12 // length + type + crc
	maxChunkLength = math.MaxInt32
	maxKeywordLen  = 79
)

// Chunk is one decoded PNG chunk.
//
// Data aliases the buffer the chunk was read from; treat it as read-only.
type Chunk struct {
	Offset int // offset of the length field within the stream
	Length uint32
	Type   [4]byte
	Data   []byte
	CRC    uint32
}

// TypeString returns the chunk type as a string.
func (c Chunk) TypeString() string {
	return string(c.Type[:])
}

// Size is the number of bytes the chunk occupies in the stream.
func (c Chunk) Size() int {
	return chunkOverhead + int(c.Length)
}

// Valid reports whether the stored CRC matches type ++ data and the declared
// length matches the data.
func (c Chunk) Valid() bool {
	return int(c.Length) == len(c.Data) && c.CRC == ChunkCRC(c.Type, c.Data)
}

// Ancillary reports whether decoders may safely ignore the chunk (bit 5 of
// the first type byte set, i.e. lowercase).
func (c Chunk) Ancillary() bool {
	return c.Type[0]&0x20 != 0
}

// Keyword returns the keyword of a tEXt chunk. ok is false for other chunk
// types and for tEXt data without a NUL separator.
func (c Chunk) Keyword() (keyword string, ok bool) {
	if c.TypeString() != TypeText {
		return "", false
	}
	keyword, _, ok = splitText(c.Data)
	return keyword, ok
}

// HasSignature reports whether b starts with the PNG signature.
func HasSignature(b []byte) bool {
	return len(b) >= signatureLen && string(b[:signatureLen]) == Signature
}

// EncodeChunk serializes a chunk: big-endian length, type, data, big-endian
// CRC over type ++ data.
func EncodeChunk(typ string, data []byte) ([]byte, error) {
	t, err := parseType(typ)
	if err != nil {
		return nil, err
	}
	if len(data) > maxChunkLength {
		return nil, newError(CodeChunkTooLarge, -1, "chunk data is %d bytes, limit %d", len(data), maxChunkLength)
	}

	out := make([]byte, chunkOverhead+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(data)))
	copy(out[4:8], t[:])
	copy(out[8:], data)
	binary.BigEndian.PutUint32(out[8+len(data):], ChunkCRC(t, data))
	return out, nil
}

// InsertChunk returns a copy of png with a new chunk spliced in directly
// after IHDR:
//
//	signature ++ IHDR ++ new chunk ++ remaining chunks
//
// IHDR is the only chunk located by fixed position; the rest of the stream is
// copied through untouched.
func InsertChunk(png []byte, typ string, data []byte) ([]byte, error) {
	encoded, err := EncodeChunk(typ, data)
	if err != nil {
		return nil, err
	}
	end, err := headerEnd(png)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(png)+len(encoded))
	out = append(out, png[:end]...)
	out = append(out, encoded...)
	out = append(out, png[end:]...)
	return out, nil
}

// TextData builds tEXt chunk data: keyword ++ NUL ++ text.
func TextData(keyword string, text []byte) ([]byte, error) {
	if err := validateKeyword(keyword); err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(keyword)+1+len(text))
	data = append(data, keyword...)
	data = append(data, 0)
	data = append(data, text...)
	return data, nil
}

// InsertText removes every tEXt chunk carrying keyword and inserts a fresh
// one after IHDR, so the result holds exactly one chunk for that keyword.
func InsertText(png []byte, keyword string, text []byte) ([]byte, error) {
	data, err := TextData(keyword, text)
	if err != nil {
		return nil, err
	}
	stripped, _, err := RemoveText(png, keyword)
	if err != nil {
		return nil, err
	}
	return InsertChunk(stripped, TypeText, data)
}

// RemoveText returns a copy of png without any tEXt chunk whose keyword
// equals keyword, along with the number of chunks removed.
func RemoveText(png []byte, keyword string) ([]byte, int, error) {
	if _, err := headerEnd(png); err != nil {
		return nil, 0, err
	}

	out := make([]byte, 0, len(png))
	out = append(out, png[:signatureLen]...)
	removed := 0
	last := signatureLen
	err := Walk(png, func(c Chunk) bool {
		last = c.Offset + c.Size()
		if c.TypeString() == TypeText {
			if k, _, ok := splitText(c.Data); ok && k == keyword {
				removed++
				return true
			}
		}
		out = append(out, png[c.Offset:last]...)
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	// Anything after IEND is carried over as-is.
	out = append(out, png[last:]...)
	return out, removed, nil
}

// headerEnd validates the signature and returns the offset just past IHDR.
func headerEnd(png []byte) (int, error) {
	if !HasSignature(png) {
		return 0, newError(CodeMalformedInput, 0, "missing PNG signature")
	}
	if len(png) < signatureLen+8 {
		return 0, newError(CodeMalformedInput, signatureLen, "no room for IHDR header")
	}
	length := binary.BigEndian.Uint32(png[signatureLen : signatureLen+4])
	if string(png[signatureLen+4:signatureLen+8]) != TypeIHDR {
		return 0, newError(CodeMalformedInput, signatureLen, "first chunk is %q, want IHDR", png[signatureLen+4:signatureLen+8])
	}
	end := uint64(signatureLen) + chunkOverhead + uint64(length)
	if end > uint64(len(png)) {
		return 0, newError(CodeTruncatedFile, signatureLen, "IHDR declares %d bytes, buffer has %d", length, len(png)-signatureLen-chunkOverhead)
	}
	return int(end), nil
}

func parseType(typ string) ([4]byte, error) {
	var t [4]byte
	if len(typ) != 4 {
		return t, newError(CodeInvalidChunkType, -1, "chunk type %q must be 4 bytes", typ)
	}
	for i := 0; i < 4; i++ {
		c := typ[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return t, newError(CodeInvalidChunkType, -1, "chunk type %q must be ASCII letters", typ)
		}
		t[i] = c
	}
	return t, nil
}

func validateKeyword(keyword string) error {
	if len(keyword) == 0 || len(keyword) > maxKeywordLen {
		return newError(CodeInvalidKeyword, -1, "keyword length %d outside 1..%d", len(keyword), maxKeywordLen)
	}
	for i := 0; i < len(keyword); i++ {
		c := keyword[i]
		if c < 0x20 || c > 0x7E && c < 0xA1 {
			return newError(CodeInvalidKeyword, -1, "keyword %q has non-printable byte 0x%02x", keyword, c)
		}
	}
	return nil
}

// splitText splits tEXt data at the first NUL.
func splitText(data []byte) (keyword string, text []byte, ok bool) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", nil, false
	}
	return string(data[:i]), data[i+1:], true
}
