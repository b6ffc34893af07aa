package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version constants for the capsule payload schema.
const (
	// SchemaVersion is written into every exported payload.
	SchemaVersion = "1.0.0"

	// SupportedMajor is the only major version this build can read.
	SupportedMajor = 1
)

// ErrUnsupportedVersion is returned by CheckVersion for payloads whose major
// version this build does not understand.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

// MajorVersion returns the leading numeric component of a semantic-version
// like string ("1.2.3" -> 1, "2" -> 2).
func MajorVersion(v string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(v), ".")
	major, err := strconv.Atoi(head)
	if err != nil || major < 0 {
		return 0, fmt.Errorf("malformed schema version %q", v)
	}
	return major, nil
}

// CheckVersion reports whether a payload tagged with v can be interpreted
// by this build. Field layout is never guessed for other majors.
func CheckVersion(v string) error {
	major, err := MajorVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, err)
	}
	if major != SupportedMajor {
		return fmt.Errorf("%w: %q (supported major: %d)", ErrUnsupportedVersion, v, SupportedMajor)
	}
	return nil
}
