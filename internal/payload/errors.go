package payload

import "fmt"

// DecodeReason categorizes why a capsule's text could not be decoded.
type DecodeReason string

const (
	ReasonInvalidUTF8 DecodeReason = "INVALID_UTF8"
	ReasonInvalidJSON DecodeReason = "INVALID_JSON"
	ReasonSchema      DecodeReason = "SCHEMA"
)

// DecodeError is returned by Deserialize. It is an ordinary value so callers
// scanning several capsules can skip a bad one and keep going.
type DecodeError struct {
	Reason DecodeReason
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode payload: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports a payload that cannot be serialized.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Message)
}
