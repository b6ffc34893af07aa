package payload

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

// envelopeSchema constrains the payload envelope. Record contents stay
// open; only the shape the codec relies on is checked. The trailing "..."
// admits fields added by newer minor versions.
const envelopeSchema = `
#Payload: {
	kind:           "persona" | "character_card" | "scenario_card"
	schema_version: =~"^[0-9]+(\\.[0-9]+)*([-+][0-9A-Za-z.+-]*)?$"
	exported_at:    string
	card: {...}
	world?: null | {...}
	loreEntries?: null | [...{...}]
	...
}
`

// envelope holds the compiled schema. A cue.Context is not safe for
// concurrent use, so validation runs under mu.
var envelope struct {
	once   sync.Once
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
	err    error
}

func loadEnvelope() error {
	envelope.once.Do(func() {
		envelope.ctx = cuecontext.New()
		v := envelope.ctx.CompileString(envelopeSchema, cue.Filename("payload.cue"))
		if err := v.Err(); err != nil {
			envelope.err = fmt.Errorf("compile envelope schema: %w", err)
			return
		}
		envelope.schema = v.LookupPath(cue.ParsePath("#Payload"))
	})
	return envelope.err
}

// ValidateEnvelope checks raw JSON against the payload envelope schema.
func ValidateEnvelope(data []byte) error {
	if err := loadEnvelope(); err != nil {
		return err
	}

	expr, err := cuejson.Extract("payload.json", data)
	if err != nil {
		return fmt.Errorf("extract JSON: %w", err)
	}

	envelope.mu.Lock()
	defer envelope.mu.Unlock()

	v := envelope.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	if err := envelope.schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError reduces a CUE error list to its first entry, keeping the
// message readable.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("%w (and %d more)", errs[0], len(errs)-1)
}
