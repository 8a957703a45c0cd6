package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

func employees() ir.Relation {
	return ir.NewRelation(ir.Schema{"name", "dept", "salary"},
		ir.NewTuple("name", "Alice", "dept", "eng", "salary", 100),
		ir.NewTuple("name", "Bob", "dept", "eng", "salary", 90),
		ir.NewTuple("name", "Charlie", "dept", "hr", "salary", 80),
	)
}

func departments() ir.Relation {
	return ir.NewRelation(ir.Schema{"dept", "location"},
		ir.NewTuple("dept", "eng", "location", "SF"),
		ir.NewTuple("dept", "hr", "location", "NYC"),
	)
}

func colEq(name string, v ir.Value) Pred {
	return predFn(planir.ColEq(name, v))
}

func TestSelectByDept(t *testing.T) {
	got := Select(colEq("dept", ir.String("eng")), employees())

	want := ir.NewRelation(ir.Schema{"name", "dept", "salary"},
		ir.NewTuple("name", "Alice", "dept", "eng", "salary", 100),
		ir.NewTuple("name", "Bob", "dept", "eng", "salary", 90),
	)
	assert.True(t, got.Equal(want), "got %v", got)
}

func TestSelectDropsUnknownRows(t *testing.T) {
	// A NULL score makes score > 85 Unknown; only definite-True rows
	// survive.
	scores := ir.NewRelation(ir.Schema{"name", "score"},
		ir.NewTuple("name", "Alice", "score", 95),
		ir.NewTuple("name", "Bob", "score", nil),
		ir.NewTuple("name", "Charlie", "score", 80),
	)
	pred := predFn(planir.Compare{
		Left: planir.Col("score"), Op: planir.OpGt, Right: planir.Lit(ir.Int(85)),
	})
	got := Select(pred, scores)

	want := ir.NewRelation(ir.Schema{"name", "score"},
		ir.NewTuple("name", "Alice", "score", 95),
	)
	assert.True(t, got.Equal(want), "got %v", got)
}

func TestSelectPreservesOrder(t *testing.T) {
	got := Select(func(ir.Tuple) ir.Truth { return ir.True }, employees())
	assert.True(t, got.Equal(employees()))
}

func TestProjectSingleColumn(t *testing.T) {
	got := Project(ir.Schema{"name"}, employees())

	want := ir.NewRelation(ir.Schema{"name"},
		ir.NewTuple("name", "Alice"),
		ir.NewTuple("name", "Bob"),
		ir.NewTuple("name", "Charlie"),
	)
	assert.True(t, got.Equal(want))
}

func TestProjectKeepsDuplicateRows(t *testing.T) {
	got := Project(ir.Schema{"dept"}, employees())
	assert.Len(t, got.Tuples, 3, "projection never deduplicates")
	assert.True(t, got.Tuples[0].Equal(got.Tuples[1]))
}

func TestProjectMissingColumnContributesNoField(t *testing.T) {
	got := Project(ir.Schema{"name", "missing"}, employees())
	assert.Equal(t, ir.Schema{"name", "missing"}, got.Schema)
	for _, tup := range got.Tuples {
		assert.Len(t, tup, 1, "missing column produces no field, not a NULL slot")
		assert.False(t, tup.Has("missing"))
	}
}

func TestProjectDuplicateColumns(t *testing.T) {
	got := Project(ir.Schema{"name", "name"}, employees())
	assert.True(t, got.Tuples[0].Equal(ir.NewTuple("name", "Alice", "name", "Alice")))
}

func TestCrossProduct(t *testing.T) {
	got := Cross(employees(), departments())

	assert.Equal(t, ir.Schema{"name", "dept", "salary", "dept", "location"}, got.Schema)
	assert.Len(t, got.Tuples, 6)
	// Left-major order: first pairing is (Alice, eng-SF).
	assert.True(t, got.Tuples[0].Equal(
		ir.NewTuple("name", "Alice", "dept", "eng", "salary", 100, "dept", "eng", "location", "SF")))
	assert.True(t, got.Tuples[1].Equal(
		ir.NewTuple("name", "Alice", "dept", "eng", "salary", 100, "dept", "hr", "location", "NYC")))
}

func TestCrossWithEmptySide(t *testing.T) {
	empty := ir.Empty(ir.Schema{"x"})
	got := Cross(employees(), empty)
	assert.Equal(t, ir.Schema{"name", "dept", "salary", "x"}, got.Schema)
	assert.Empty(t, got.Tuples)

	got = Cross(empty, employees())
	assert.Empty(t, got.Tuples)
}

func TestJoinEqualsSelectOverCross(t *testing.T) {
	pred := predFn(planir.Compare{
		Left: planir.Col("salary"), Op: planir.OpGt, Right: planir.Lit(ir.Int(85)),
	})
	joined := Join(pred, employees(), departments())
	composed := Select(pred, Cross(employees(), departments()))
	assert.True(t, joined.Equal(composed))
}

func TestRename(t *testing.T) {
	got := Rename("dept", "division", employees())
	assert.Equal(t, ir.Schema{"name", "division", "salary"}, got.Schema)
	assert.Equal(t, ir.String("eng"), got.Tuples[0].Lookup("division"))
	assert.Equal(t, ir.Null{}, got.Tuples[0].Lookup("dept"), "old name is gone")

	// A missing old name is a no-op.
	same := Rename("missing", "x", employees())
	assert.True(t, same.Equal(employees()))
}

func TestUnionAppendsInOrder(t *testing.T) {
	extra := ir.NewRelation(ir.Schema{"name", "dept", "salary"},
		ir.NewTuple("name", "Diana", "dept", "hr", "salary", 95),
	)
	got := Union(employees(), extra)

	assert.Len(t, got.Tuples, 4)
	assert.True(t, got.Tuples[3].Equal(ir.NewTuple("name", "Diana", "dept", "hr", "salary", 95)),
		"appended rows come last")
	assert.True(t, got.Tuples[0].Equal(employees().Tuples[0]), "original order preserved")
}

func TestUnionKeepsDuplicates(t *testing.T) {
	got := Union(employees(), employees())
	assert.Len(t, got.Tuples, 6)
}

func TestIntersectPerOccurrence(t *testing.T) {
	left := ir.NewRelation(ir.Schema{"a"},
		ir.NewTuple("a", 1), ir.NewTuple("a", 1), ir.NewTuple("a", 2))
	right := ir.NewRelation(ir.Schema{"a"},
		ir.NewTuple("a", 1), ir.NewTuple("a", 3))

	got := Intersect(left, right)
	want := ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", 1), ir.NewTuple("a", 1))
	assert.True(t, got.Equal(want), "each left occurrence with a right match survives")
}

func TestDifference(t *testing.T) {
	left := ir.NewRelation(ir.Schema{"a"},
		ir.NewTuple("a", 1), ir.NewTuple("a", 2), ir.NewTuple("a", 1))
	right := ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", 1))

	got := Difference(left, right)
	want := ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", 2))
	assert.True(t, got.Equal(want), "every matching occurrence is removed")
}

func TestIntersectWithNullTuples(t *testing.T) {
	// Structural matching treats NULL as equal to NULL, unlike WHERE.
	left := ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", nil))
	right := ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", nil))
	got := Intersect(left, right)
	assert.Len(t, got.Tuples, 1)
}

func TestOperatorsDoNotMutateInputs(t *testing.T) {
	r := employees()
	before := r.Clone()

	Select(colEq("dept", ir.String("eng")), r)
	Project(ir.Schema{"name"}, r)
	Cross(r, departments())
	Rename("dept", "d", r)
	Union(r, r)
	Intersect(r, r)
	Difference(r, r)

	assert.True(t, r.Equal(before))
}
