package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Record is an opaque JSON-compatible object: values are nil, bool, string,
// json.Number, []any, or map[string]any.
type Record = map[string]any

// Normalize converts a Go value into its JSON-compatible form: every integer
// and float becomes a json.Number, slices become []any, and string-keyed maps
// become map[string]any. A normalized record is structurally equal to the
// record Deserialize produces for it.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case json.Number:
		if !validNumber(val) {
			return nil, fmt.Errorf("invalid JSON number %q", string(val))
		}
		return val, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v (%T) is not a string", k, k)
			}
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", ks, err)
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		return normalizeSlice(len(val), func(i int) any { return val[i] })
	case []Record:
		return normalizeSlice(len(val), func(i int) any { return val[i] })
	case []string:
		return normalizeSlice(len(val), func(i int) any { return val[i] })
	default:
		return numberOf(v)
	}
}

// NormalizeRecord is Normalize for an object. A nil record stays nil.
func NormalizeRecord(rec Record) (Record, error) {
	if rec == nil {
		return nil, nil
	}
	n, err := Normalize(rec)
	if err != nil {
		return nil, err
	}
	return n.(map[string]any), nil
}

func normalizeSlice(n int, at func(int) any) ([]any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := Normalize(at(i))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// numberOf formats Go numeric types as JSON numbers. Floats use the
// shortest digits that round-trip (strconv), switching to exponent form
// below 1e-6 and from 1e21 up as ECMAScript does.
func numberOf(v any) (json.Number, error) {
	switch n := v.(type) {
	case int:
		return json.Number(strconv.FormatInt(int64(n), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(n), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(n), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(n), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(n), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(n), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(n), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(n), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(n, 10)), nil
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	default:
		return "", fmt.Errorf("unsupported type for JSON payload: %T", v)
	}
}

func formatFloat(f float64, bits int) (json.Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite number %v is not representable in JSON", f)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return json.Number(b), nil
}

// validNumber reports whether n is a syntactically valid JSON number.
func validNumber(n json.Number) bool {
	s := string(n)
	if s == "" || !(s[0] == '-' || s[0] >= '0' && s[0] <= '9') || s[len(s)-1] < '0' || s[len(s)-1] > '9' {
		return false
	}
	return json.Valid([]byte(s))
}
