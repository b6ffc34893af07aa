package pngchunk

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes codec errors.
type ErrorCode string

const (
	// CodeMalformedInput: buffer too short, wrong signature, or IHDR missing.
	CodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// CodeTruncatedFile: a chunk's declared length runs past the buffer.
	CodeTruncatedFile ErrorCode = "TRUNCATED_FILE"

	// CodeInvalidChunkType: chunk type is not four ASCII letters.
	CodeInvalidChunkType ErrorCode = "INVALID_CHUNK_TYPE"

	// CodeInvalidKeyword: tEXt keyword empty, too long, or not printable Latin-1.
	CodeInvalidKeyword ErrorCode = "INVALID_KEYWORD"

	// CodeChunkTooLarge: data exceeds the PNG four-byte length limit (2^31-1).
	CodeChunkTooLarge ErrorCode = "CHUNK_TOO_LARGE"
)

// Sentinels for errors.Is matching against *Error.
var (
	ErrMalformedInput = errors.New("pngchunk: malformed input")
	ErrTruncatedFile  = errors.New("pngchunk: truncated file")
)

// Error is the codec's structured error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Offset is the byte offset the problem was detected at, or -1.
	Offset int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (offset=%d)", e.Code, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is the sentinel for e's code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedInput:
		return e.Code == CodeMalformedInput
	case ErrTruncatedFile:
		return e.Code == CodeTruncatedFile
	}
	return false
}

func newError(code ErrorCode, offset int, format string, args ...any) *Error {
	return &Error{Code: code, Offset: offset, Message: fmt.Sprintf(format, args...)}
}
