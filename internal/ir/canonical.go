package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON. It is the only
// serialization used for fingerprinting plans and relations, so two
// structurally equal inputs always produce byte-identical output.
//
// Differences from encoding/json:
//  1. Object keys are sorted by UTF-16 code units, not UTF-8 bytes.
//  2. No HTML escaping (< > & pass through).
//  3. Strings are NFC normalized.
//  4. Floats are rejected; the value model has no float variant.
//
// Unlike stricter canonical-JSON dialects, null is representable here:
// SQL NULL is a first-class value in this model.
func MarshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case Bool:
		return marshalCanonicalBool(bool(val)), nil
	case Int:
		return []byte(fmt.Sprintf("%d", int64(val))), nil
	case String:
		return marshalCanonicalString(string(val))
	case Tuple:
		return marshalCanonicalTuple(val)
	case Relation:
		return MarshalCanonical(map[string]any{
			"schema": schemaToAny(val.Schema),
			"tuples": tuplesToAny(val.Tuples),
		})
	case Schema:
		return MarshalCanonical(schemaToAny(val))
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		return marshalCanonicalBool(val), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case float32, float64:
		return nil, fmt.Errorf("floats are not representable in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func schemaToAny(s Schema) []any {
	out := make([]any, len(s))
	for i, name := range s {
		out[i] = name
	}
	return out
}

func tuplesToAny(tuples []Tuple) []any {
	out := make([]any, len(tuples))
	for i, t := range tuples {
		out[i] = t
	}
	return out
}

// marshalCanonicalTuple encodes a tuple as an array of [name, value] pairs.
// Tuples are ordered and may carry duplicate names, so an object encoding
// would lose information.
func marshalCanonicalTuple(t Tuple) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, f := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := marshalCanonicalString(f.Name)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		val, err := MarshalCanonical(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.WriteByte('[')
		buf.Write(name)
		buf.WriteByte(',')
		buf.Write(val)
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalBool(b bool) []byte {
	if b {
		return []byte("true")
	}
	return []byte("false")
}

// marshalCanonicalString emits an NFC-normalized JSON string without HTML
// escaping. Go's encoder escapes U+2028/U+2029 for JavaScript embedding;
// RFC 8785 forbids that, so those sequences are unescaped afterwards.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return unescapeLineSeparators(result), nil
}

// unescapeLineSeparators rewrites backslash-u2028 and backslash-u2029 escapes back to their
// literal characters. A sequence preceded by an odd run of backslashes is a
// literal backslash followed by text and must stay escaped.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] == '\\' && i+6 <= len(data) &&
			bytes.HasPrefix(data[i:], []byte(`\u202`)) &&
			(data[i+5] == '8' || data[i+5] == '9') {
			backslashes := 0
			for j := len(out) - 1; j >= 0 && out[j] == '\\'; j-- {
				backslashes++
			}
			if backslashes%2 == 0 {
				if data[i+5] == '8' {
					out = append(out, "\u2028"...)
				} else {
					out = append(out, "\u2029"...)
				}
				i += 6
				continue
			}
		}
		out = append(out, data[i])
		i++
	}
	return out
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := MarshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compareKeysUTF16 orders strings by UTF-16 code units as RFC 8785
// requires. Go's native string comparison is UTF-8 and differs for
// supplementary-plane characters.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
