package ir

// Schema is an ordered sequence of column names. Uniqueness is a convention,
// not a structural guarantee: duplicate names are legal and resolved by
// first-match lookup.
type Schema []string

// Equal reports exact schema equality: same names in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Concat returns the concatenation of two schemas. Duplicates are permitted;
// this is exactly what a cross product produces.
func (s Schema) Concat(other Schema) Schema {
	out := make(Schema, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	return out
}

// Rename returns a copy of the schema with every occurrence of old replaced
// by new. No conflict detection: if new already exists, the result carries
// duplicate names.
func (s Schema) Rename(old, new string) Schema {
	out := make(Schema, len(s))
	for i, name := range s {
		if name == old {
			out[i] = new
		} else {
			out[i] = name
		}
	}
	return out
}

// Clone returns a copy of the schema.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}

// Field is one (column name, value) slot in a tuple.
type Field struct {
	Name  string
	Value Value
}

// Tuple is an ordered sequence of fields. Column lookup scans left to right
// and returns the first match; an absent column reads as Null, so absence
// and explicit NULL are indistinguishable to callers. That is intentional
// and mirrors the reference model.
type Tuple []Field

// Lookup returns the value of the first field named col, or Null when no
// field matches.
func (t Tuple) Lookup(col string) Value {
	for _, f := range t {
		if f.Name == col {
			return f.Value
		}
	}
	return Null{}
}

// Has reports whether the tuple carries a field named col.
func (t Tuple) Has(col string) bool {
	for _, f := range t {
		if f.Name == col {
			return true
		}
	}
	return false
}

// Equal reports structural equality: same length, same names and values in
// the same order.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i].Name != other[i].Name || !Equal(t[i].Value, other[i].Value) {
			return false
		}
	}
	return true
}

// Concat returns the concatenation of two tuples, t's fields first.
func (t Tuple) Concat(other Tuple) Tuple {
	out := make(Tuple, 0, len(t)+len(other))
	out = append(out, t...)
	out = append(out, other...)
	return out
}

// Rename returns a copy with every field named old renamed to new.
func (t Tuple) Rename(old, new string) Tuple {
	out := make(Tuple, len(t))
	for i, f := range t {
		if f.Name == old {
			out[i] = Field{Name: new, Value: f.Value}
		} else {
			out[i] = f
		}
	}
	return out
}

// NewTuple builds a tuple from alternating column names and values, which
// keeps test fixtures compact. Panics on a malformed pair list; use only
// with literal arguments.
func NewTuple(pairs ...any) Tuple {
	if len(pairs)%2 != 0 {
		panic("NewTuple: odd number of arguments")
	}
	t := make(Tuple, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("NewTuple: column name must be a string")
		}
		v, err := FromGo(pairs[i+1])
		if err != nil {
			panic("NewTuple: " + err.Error())
		}
		t = append(t, Field{Name: name, Value: v})
	}
	return t
}
