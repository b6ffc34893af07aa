package pngchunk

import (
	"bytes"
	"encoding/binary"
)

// Walk calls fn for each chunk in file order, starting after the signature,
// until fn returns false, IEND has been visited, or the buffer ends.
//
// A chunk whose declared length runs past the buffer stops the walk with
// CodeTruncatedFile; chunks visited before it were delivered normally.
func Walk(png []byte, fn func(Chunk) bool) error {
	if !HasSignature(png) {
		return newError(CodeMalformedInput, 0, "missing PNG signature")
	}

	off := signatureLen
	for off < len(png) {
		if len(png)-off < 8 {
			return newError(CodeTruncatedFile, off, "chunk header needs 8 bytes, %d left", len(png)-off)
		}
		length := binary.BigEndian.Uint32(png[off : off+4])
		end := uint64(off) + chunkOverhead + uint64(length)
		if end > uint64(len(png)) {
			return newError(CodeTruncatedFile, off, "chunk declares %d data bytes, %d left", length, len(png)-off-chunkOverhead)
		}

		c := Chunk{Offset: off, Length: length}
		copy(c.Type[:], png[off+4:off+8])
		dataEnd := off + 8 + int(length)
		c.Data = png[off+8 : dataEnd]
		c.CRC = binary.BigEndian.Uint32(png[dataEnd : dataEnd+4])

		if !fn(c) || c.TypeString() == TypeIEND {
			return nil
		}
		off = int(end)
	}
	return nil
}

// Chunks returns every chunk up to and including IEND.
func Chunks(png []byte) ([]Chunk, error) {
	var chunks []Chunk
	err := Walk(png, func(c Chunk) bool {
		chunks = append(chunks, c)
		return true
	})
	return chunks, err
}

// FindChunk returns the text of the first tEXt chunk whose keyword matches.
//
// A missing signature, a truncated chunk, or no match all return false:
// "not a capsule" is a normal outcome for arbitrary PNGs. Chunks whose CRC
// does not verify are skipped.
func FindChunk(png []byte, keyword string) ([]byte, bool) {
	var found []byte
	ok := false
	_ = Walk(png, func(c Chunk) bool {
		text, match := matchText(c, keyword)
		if !match {
			return true
		}
		found, ok = text, true
		return false
	})
	return found, ok
}

// FindAll returns the text of every tEXt chunk whose keyword matches, in file
// order. The scan stops at the first truncated chunk; matches before it are
// kept.
func FindAll(png []byte, keyword string) [][]byte {
	var found [][]byte
	_ = Walk(png, func(c Chunk) bool {
		if text, ok := matchText(c, keyword); ok {
			found = append(found, text)
		}
		return true
	})
	return found
}

// matchText returns a copy of the text of c if c is an intact tEXt chunk
// carrying keyword.
func matchText(c Chunk, keyword string) ([]byte, bool) {
	if c.TypeString() != TypeText {
		return nil, false
	}
	i := bytes.IndexByte(c.Data, 0)
	if i < 0 || string(c.Data[:i]) != keyword {
		return nil, false
	}
	if !c.Valid() {
		return nil, false
	}
	return bytes.Clone(c.Data[i+1:]), true
}
