package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgrsql/relcore/internal/ir"
)

func TestNaturalJoinOnSharedColumn(t *testing.T) {
	got := NaturalJoin(employees(), departments())

	// The crossed schema keeps both dept columns; the join predicate
	// matched them, so surviving rows carry the same value twice.
	assert.Equal(t, ir.Schema{"name", "dept", "salary", "dept", "location"}, got.Schema)
	assert.Len(t, got.Tuples, 3)
	assert.True(t, got.Tuples[0].Equal(
		ir.NewTuple("name", "Alice", "dept", "eng", "salary", 100, "dept", "eng", "location", "SF")))
	assert.True(t, got.Tuples[2].Equal(
		ir.NewTuple("name", "Charlie", "dept", "hr", "salary", 80, "dept", "hr", "location", "NYC")))
}

func TestNaturalJoinNullNeverMatches(t *testing.T) {
	left := ir.NewRelation(ir.Schema{"k", "v"},
		ir.NewTuple("k", nil, "v", 1),
		ir.NewTuple("k", "a", "v", 2),
	)
	right := ir.NewRelation(ir.Schema{"k", "w"},
		ir.NewTuple("k", nil, "w", 10),
		ir.NewTuple("k", "a", "w", 20),
	)

	got := NaturalJoin(left, right)
	// NULL = NULL is Unknown, so only the (a, a) pairing survives.
	assert.Len(t, got.Tuples, 1)
	assert.True(t, got.Tuples[0].Equal(
		ir.NewTuple("k", "a", "v", 2, "k", "a", "w", 20)))
}

func TestNaturalJoinNoSharedColumnsIsCross(t *testing.T) {
	left := ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", 1), ir.NewTuple("a", 2))
	right := ir.NewRelation(ir.Schema{"b"}, ir.NewTuple("b", 10))

	got := NaturalJoin(left, right)
	assert.True(t, got.Equal(Cross(left, right)),
		"an empty shared-column set degenerates to the cross product")
}

func TestNaturalJoinMultipleSharedColumns(t *testing.T) {
	left := ir.NewRelation(ir.Schema{"a", "b", "x"},
		ir.NewTuple("a", 1, "b", 1, "x", "l1"),
		ir.NewTuple("a", 1, "b", 2, "x", "l2"),
	)
	right := ir.NewRelation(ir.Schema{"a", "b", "y"},
		ir.NewTuple("a", 1, "b", 1, "y", "r1"),
		ir.NewTuple("a", 1, "b", 9, "y", "r2"),
	)

	got := NaturalJoin(left, right)
	// Both shared columns must match.
	assert.Len(t, got.Tuples, 1)
	assert.True(t, got.Tuples[0].Equal(
		ir.NewTuple("a", 1, "b", 1, "x", "l1", "a", 1, "b", 1, "y", "r1")))
}

func TestNaturalJoinVariantMismatchExcludes(t *testing.T) {
	left := ir.NewRelation(ir.Schema{"k"}, ir.NewTuple("k", 1))
	right := ir.NewRelation(ir.Schema{"k"}, ir.NewTuple("k", "1"))
	got := NaturalJoin(left, right)
	assert.Empty(t, got.Tuples, "Int and String never compare equal")
}
