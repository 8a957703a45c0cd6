package planir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgrsql/relcore/internal/ir"
)

func TestOutputSchema(t *testing.T) {
	left := Inline(ir.Empty(ir.Schema{"a", "b"}))
	right := Inline(ir.Empty(ir.Schema{"c"}))

	tests := []struct {
		name string
		expr RelExpr
		want ir.Schema
	}{
		{"base", left, ir.Schema{"a", "b"}},
		{"select keeps input schema", Select{Pred: TruePred{}, Input: left}, ir.Schema{"a", "b"}},
		{"project replaces schema", Project{Columns: ir.Schema{"b"}, Input: left}, ir.Schema{"b"}},
		{"cross concatenates", Cross{Left: left, Right: right}, ir.Schema{"a", "b", "c"}},
		{"join concatenates", Join{Pred: TruePred{}, Left: left, Right: right}, ir.Schema{"a", "b", "c"}},
		{"rename substitutes", Rename{Old: "a", New: "z", Input: left}, ir.Schema{"z", "b"}},
		{"union takes left", Union{Left: left, Right: left}, ir.Schema{"a", "b"}},
		{"intersect takes left", Intersect{Left: left, Right: left}, ir.Schema{"a", "b"}},
		{"difference takes left", Difference{Left: left, Right: left}, ir.Schema{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputSchema(tt.expr))
		})
	}
}

func TestIsEmptyBase(t *testing.T) {
	assert.True(t, IsEmptyBase(EmptyExpr(ir.Schema{"a"})))
	assert.True(t, IsEmptyBase(Inline(ir.Empty(nil))))
	assert.False(t, IsEmptyBase(Scan("r")), "a named leaf may bind to anything")
	assert.False(t, IsEmptyBase(Inline(ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", 1)))))
	assert.False(t, IsEmptyBase(Select{Pred: FalsePred{}, Input: EmptyExpr(nil)}))
}

func TestHasUnboundLeaf(t *testing.T) {
	bound := Base{Name: "r", Rel: ir.Empty(ir.Schema{"a"})}

	tests := []struct {
		name string
		expr RelExpr
		want bool
	}{
		{"unbound scan", Scan("r"), true},
		{"bound leaf keeps its name", bound, false},
		{"inline leaf", Inline(ir.Empty(ir.Schema{"a"})), false},
		{"empty leaf", EmptyExpr(ir.Schema{"a"}), false},
		{"scan under select", Select{Pred: TruePred{}, Input: Scan("r")}, true},
		{"scan under project", Project{Columns: ir.Schema{"a"}, Input: Scan("r")}, true},
		{"scan on one cross side", Cross{Left: bound, Right: Scan("s")}, true},
		{"fully bound join", Join{Pred: TruePred{}, Left: bound, Right: bound}, false},
		{"scan deep in a union", Union{Left: bound, Right: Rename{Old: "a", New: "b", Input: Scan("s")}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasUnboundLeaf(tt.expr))
		})
	}
}
