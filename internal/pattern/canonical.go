package pattern

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for hashing.
// This is the only serialization used for content-addressed identity.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats and no null (returns error); encode angles with CanonicalAngle
//
// Supported values: string, int, int64, bool, []any, []int, map[string]any.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return writeCanonicalString(buf, val)
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case []int:
		buf.WriteByte('[')
		for i, n := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(n))
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString writes an NFC-normalized JSON string.
// Only control characters, backslash and quote are escaped; U+2028 and
// U+2029 stay literal as RFC 8785 requires.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters. An escape preceded by an odd
// run of backslashes is text, not an escape, and is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if i+6 <= len(data) && bytes.HasPrefix(data[i:], []byte(`\u202`)) && (data[i+5] == '8' || data[i+5] == '9') {
			run := 0
			for j := len(out) - 1; j >= 0 && out[j] == '\\'; j-- {
				run++
			}
			if run%2 == 0 {
				if data[i+5] == '8' {
					out = append(out, "\u2028"...)
				} else {
					out = append(out, "\u2029"...)
				}
				i += 5
				continue
			}
		}
		out = append(out, data[i])
	}
	return out
}

// compareKeysRFC8785 orders keys by UTF-16 code units.
// Go's string comparison uses UTF-8 bytes, which differs for characters
// outside the BMP.
func compareKeysRFC8785(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	return len(ua) - len(ub)
}

// CanonicalAngle encodes an angle as the shortest decimal string that
// round-trips to the same float64. Negative zero is folded into zero.
func CanonicalAngle(a float64) (string, error) {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return "", fmt.Errorf("angle %v is not finite", a)
	}
	if a == 0 {
		a = 0
	}
	return strconv.FormatFloat(a, 'g', -1, 64), nil
}

// canonicalForm converts a pattern into the value tree hashed by Hash.
// The pattern name is excluded so renaming does not change identity.
func canonicalForm(p *Pattern) (map[string]any, error) {
	cmds := make([]any, 0, len(p.Commands))
	for i, c := range p.Commands {
		r, err := RecordOf(c)
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
		obj := map[string]any{"kind": r.Kind}
		switch Kind(r.Kind) {
		case KindEntangle:
			obj["nodes"] = r.Nodes
		case KindMeasure:
			angle, err := CanonicalAngle(r.Angle)
			if err != nil {
				return nil, fmt.Errorf("commands[%d]: %w", i, err)
			}
			obj["node"] = r.Node
			obj["plane"] = r.Plane
			obj["angle"] = angle
		case KindCorrectX, KindCorrectZ:
			obj["node"] = r.Node
			domain := r.Domain
			if domain == nil {
				domain = []int{}
			}
			obj["domain"] = domain
		case KindClifford:
			obj["node"] = r.Node
			obj["clifford"] = r.Clifford
		default:
			obj["node"] = r.Node
		}
		cmds = append(cmds, obj)
	}

	inputs, outputs := p.Inputs, p.Outputs
	if inputs == nil {
		inputs = []int{}
	}
	if outputs == nil {
		outputs = []int{}
	}
	return map[string]any{
		"inputs":   inputs,
		"outputs":  outputs,
		"commands": cmds,
	}, nil
}
