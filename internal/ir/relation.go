package ir

// Relation is an ordered schema plus a sequence of tuples. Tuples are never
// deduplicated: this is bag semantics, matching UNION ALL composition.
//
// Consumers must treat the tuple sequence as read-only once produced. Any
// downstream dedup, reorder, or truncation has to work on a copy.
type Relation struct {
	Schema Schema
	Tuples []Tuple
}

// NewRelation builds a relation over the given columns. Tuples are taken
// as-is; no validation against the schema happens here or anywhere else in
// the core.
func NewRelation(schema Schema, tuples ...Tuple) Relation {
	return Relation{Schema: schema, Tuples: tuples}
}

// Empty returns a relation with the given schema and no tuples.
func Empty(schema Schema) Relation {
	return Relation{Schema: schema}
}

// Equal is the model's relation equality: exact schema equality plus exact
// tuple-sequence equality in order. Two relations holding the same multiset
// of rows in a different order are NOT equal. The rewrite-rule guarantees
// are stated against this equality, so it must stay the default; see
// EqualUnordered for the tolerant comparison mode.
func (r Relation) Equal(other Relation) bool {
	if !r.Schema.Equal(other.Schema) {
		return false
	}
	if len(r.Tuples) != len(other.Tuples) {
		return false
	}
	for i := range r.Tuples {
		if !r.Tuples[i].Equal(other.Tuples[i]) {
			return false
		}
	}
	return true
}

// EqualUnordered compares schemas exactly but tuples as multisets. This is
// an explicit opt-in for callers (typically assertions) that do not care
// about row order. It is never used by the core itself.
func (r Relation) EqualUnordered(other Relation) bool {
	if !r.Schema.Equal(other.Schema) {
		return false
	}
	if len(r.Tuples) != len(other.Tuples) {
		return false
	}
	matched := make([]bool, len(other.Tuples))
	for _, t := range r.Tuples {
		found := false
		for j, o := range other.Tuples {
			if !matched[j] && t.Equal(o) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Contains reports whether the relation holds at least one tuple
// structurally equal to t.
func (r Relation) Contains(t Tuple) bool {
	for _, have := range r.Tuples {
		if have.Equal(t) {
			return true
		}
	}
	return false
}

// Clone returns a deep-enough copy: fresh schema and tuple slices. Field
// values are immutable and shared.
func (r Relation) Clone() Relation {
	out := Relation{Schema: r.Schema.Clone(), Tuples: make([]Tuple, len(r.Tuples))}
	for i, t := range r.Tuples {
		ct := make(Tuple, len(t))
		copy(ct, t)
		out.Tuples[i] = ct
	}
	return out
}
