package capsule

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/pngchunk"
)

// ErrNoCapsule is returned by Decode when the buffer holds no capsule chunk.
var ErrNoCapsule = errors.New("no capsule found")

// Result is a successfully imported capsule.
type Result struct {
	Payload *payload.Payload

	// Image is a copy of the whole input buffer, so the artwork can be
	// reused as is.
	Image []byte
}

// Import finds and decodes the capsule in png. It returns false for
// anything that is not a capsule: non-PNG data, PNGs without the chunk,
// truncated files and undecodable payloads alike.
//
// The schema version is exposed on the payload but not checked here.
func Import(png []byte) (*Result, bool) {
	res, err := Decode(png)
	if err != nil {
		return nil, false
	}
	return res, true
}

// Decode is Import with the reason for failure. Capsules are tried in file
// order; the first that decodes wins. When none do, the error joins every
// *payload.DecodeError encountered.
func Decode(png []byte) (*Result, error) {
	if !pngchunk.HasSignature(png) {
		return nil, fmt.Errorf("%w: %w", ErrNoCapsule, pngchunk.ErrMalformedInput)
	}

	candidates := pngchunk.FindAll(png, Keyword)
	if len(candidates) == 0 {
		return nil, ErrNoCapsule
	}

	var errs []error
	for i, text := range candidates {
		p, err := payload.Deserialize(text)
		if err != nil {
			errs = append(errs, fmt.Errorf("capsule %d: %w", i, err))
			continue
		}
		return &Result{Payload: p, Image: bytes.Clone(png)}, nil
	}
	return nil, errors.Join(errs...)
}
