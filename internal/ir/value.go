package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a sealed interface over the primitive SQL-like value types.
// Only Null, Bool, Int, and String implement it. There is no Float variant
// and no implicit coercion between variants.
type Value interface {
	value() // Sealed - only types in this package implement it
}

// Null represents SQL NULL. It is a first-class value: tuples may carry it,
// and comparisons against it evaluate to Unknown (see planir).
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Int represents an integer value. Always int64, never float.
type Int int64

func (Int) value() {}

// String represents a string value.
type String string

func (String) value() {}

// Equal reports raw structural equality: same variant, same payload.
// Null is equal to Null here. This is NOT the WHERE-clause comparison
// (where NULL = NULL is Unknown); raw equality exists only so relations
// can be compared structurally.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	default:
		return false
	}
}

// Display renders a value the way a result grid would: NULL spelled out,
// strings unquoted, booleans lowercase.
func Display(v Value) string {
	switch val := v.(type) {
	case Null:
		return "NULL"
	case Bool:
		return strconv.FormatBool(bool(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case String:
		return string(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MarshalValue marshals a Value to JSON bytes.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(bool(val))
	case Int:
		return json.Marshal(int64(val))
	case String:
		return json.Marshal(string(val))
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// UnmarshalValue decodes a JSON scalar into a Value.
// Floats are rejected: the value model is deliberately integer-only.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case 'n':
		return Null{}, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return String(s), nil
	case '[', '{':
		return nil, fmt.Errorf("composite JSON values are not representable: %s", string(data))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer numbers are not representable: %s", string(data))
		}
		return Int(i), nil
	}
}

// FromGo converts a native Go scalar (as produced by yaml.v3, database/sql,
// or CUE decoding) into a Value. nil maps to Null. Floats are rejected.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(string(val)), nil
	case float64, float32:
		return nil, fmt.Errorf("float values are not representable: %v", val)
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}
