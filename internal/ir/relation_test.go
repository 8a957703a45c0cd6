package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationEqualIsOrdered(t *testing.T) {
	schema := Schema{"name", "dept"}
	r := NewRelation(schema,
		NewTuple("name", "Alice", "dept", "eng"),
		NewTuple("name", "Bob", "dept", "eng"),
	)
	same := NewRelation(schema,
		NewTuple("name", "Alice", "dept", "eng"),
		NewTuple("name", "Bob", "dept", "eng"),
	)
	reordered := NewRelation(schema,
		NewTuple("name", "Bob", "dept", "eng"),
		NewTuple("name", "Alice", "dept", "eng"),
	)

	assert.True(t, r.Equal(same))
	assert.False(t, r.Equal(reordered), "default equality is order-sensitive")
	assert.True(t, r.EqualUnordered(reordered))
}

func TestRelationEqualSchemaMismatch(t *testing.T) {
	r := NewRelation(Schema{"a"})
	assert.False(t, r.Equal(NewRelation(Schema{"b"})))
	assert.False(t, r.EqualUnordered(NewRelation(Schema{"b"})))
	assert.False(t, r.Equal(NewRelation(Schema{"a", "b"})))
}

func TestRelationBagSemantics(t *testing.T) {
	schema := Schema{"a"}
	dup := NewTuple("a", 1)
	r := NewRelation(schema, dup, dup)
	assert.Len(t, r.Tuples, 2, "duplicates are never collapsed")

	once := NewRelation(schema, dup)
	assert.False(t, r.Equal(once))
	assert.False(t, r.EqualUnordered(once), "multiset comparison respects multiplicity")
}

func TestRelationEqualUnorderedMultiplicity(t *testing.T) {
	schema := Schema{"a"}
	r := NewRelation(schema, NewTuple("a", 1), NewTuple("a", 1), NewTuple("a", 2))
	s := NewRelation(schema, NewTuple("a", 2), NewTuple("a", 1), NewTuple("a", 1))
	x := NewRelation(schema, NewTuple("a", 2), NewTuple("a", 2), NewTuple("a", 1))
	assert.True(t, r.EqualUnordered(s))
	assert.False(t, r.EqualUnordered(x))
}

func TestRelationContains(t *testing.T) {
	r := NewRelation(Schema{"a"}, NewTuple("a", 1), NewTuple("a", nil))
	assert.True(t, r.Contains(NewTuple("a", 1)))
	assert.True(t, r.Contains(NewTuple("a", nil)), "structural equality matches NULL against NULL")
	assert.False(t, r.Contains(NewTuple("a", 2)))
}

func TestRelationClone(t *testing.T) {
	r := NewRelation(Schema{"a"}, NewTuple("a", 1))
	c := r.Clone()
	c.Schema[0] = "z"
	c.Tuples[0][0] = Field{Name: "a", Value: Int(99)}
	assert.Equal(t, Schema{"a"}, r.Schema)
	assert.Equal(t, Int(1), r.Tuples[0].Lookup("a"))
}

func TestEmpty(t *testing.T) {
	e := Empty(Schema{"a", "b"})
	assert.Equal(t, Schema{"a", "b"}, e.Schema)
	assert.Empty(t, e.Tuples)
}
