package planir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgrsql/relcore/internal/ir"
)

func TestEvalPredicateConstants(t *testing.T) {
	tup := ir.NewTuple("a", 1)
	assert.Equal(t, ir.True, EvalPredicate(TruePred{}, tup))
	assert.Equal(t, ir.False, EvalPredicate(FalsePred{}, tup))
}

func TestEvalPredicateConnectives(t *testing.T) {
	tup := ir.Tuple{}
	assert.Equal(t, ir.False, EvalPredicate(Not{P: TruePred{}}, tup))
	assert.Equal(t, ir.True, EvalPredicate(AndPred{L: TruePred{}, R: TruePred{}}, tup))
	assert.Equal(t, ir.False, EvalPredicate(AndPred{L: TruePred{}, R: FalsePred{}}, tup))
	assert.Equal(t, ir.True, EvalPredicate(OrPred{L: FalsePred{}, R: TruePred{}}, tup))
}

func TestEvalCompare(t *testing.T) {
	tup := ir.NewTuple("age", 30, "name", "Ada", "active", true, "score", nil)

	tests := []struct {
		name string
		pred Predicate
		want ir.Truth
	}{
		{"int eq true", ColEq("age", ir.Int(30)), ir.True},
		{"int eq false", ColEq("age", ir.Int(31)), ir.False},
		{"int lt", Compare{Left: Col("age"), Op: OpLt, Right: Lit(ir.Int(40))}, ir.True},
		{"int ge", Compare{Left: Col("age"), Op: OpGe, Right: Lit(ir.Int(30))}, ir.True},
		{"int ne", Compare{Left: Col("age"), Op: OpNe, Right: Lit(ir.Int(30))}, ir.False},
		{"string eq", ColEq("name", ir.String("Ada")), ir.True},
		{"string order", Compare{Left: Col("name"), Op: OpLt, Right: Lit(ir.String("Bob"))}, ir.True},
		{"bool eq", ColEq("active", ir.Bool(true)), ir.True},

		// NULL on either side makes any comparison Unknown.
		{"null column eq", ColEq("score", ir.Int(85)), ir.Unknown},
		{"null column gt", Compare{Left: Col("score"), Op: OpGt, Right: Lit(ir.Int(85))}, ir.Unknown},
		{"null literal", Compare{Left: Col("age"), Op: OpEq, Right: Lit(ir.Null{})}, ir.Unknown},
		{"null vs null", Compare{Left: Col("score"), Op: OpEq, Right: Lit(ir.Null{})}, ir.Unknown},

		// A missing column reads as NULL, so the comparison is Unknown,
		// never an error.
		{"missing column", ColEq("salary", ir.Int(1)), ir.Unknown},

		// Variant mismatches are Unknown.
		{"int vs string", Compare{Left: Col("age"), Op: OpEq, Right: Lit(ir.String("30"))}, ir.Unknown},
		{"bool vs int", Compare{Left: Col("active"), Op: OpEq, Right: Lit(ir.Int(1))}, ir.Unknown},

		// Booleans do not admit ordering.
		{"bool lt", Compare{Left: Col("active"), Op: OpLt, Right: Lit(ir.Bool(false))}, ir.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvalPredicate(tt.pred, tup))
		})
	}
}

func TestEvalCompareColumnToColumn(t *testing.T) {
	tup := ir.NewTuple("a", 5, "b", 5, "c", 7)
	assert.Equal(t, ir.True, EvalPredicate(Compare{Left: Col("a"), Op: OpEq, Right: Col("b")}, tup))
	assert.Equal(t, ir.True, EvalPredicate(Compare{Left: Col("a"), Op: OpLt, Right: Col("c")}, tup))
	assert.Equal(t, ir.False, EvalPredicate(Compare{Left: Col("c"), Op: OpLe, Right: Col("a")}, tup))
}

func TestEvalFunc(t *testing.T) {
	fn := Func{Key: "even", Fn: func(t ir.Tuple) ir.Truth {
		v, ok := t.Lookup("n").(ir.Int)
		if !ok {
			return ir.Unknown
		}
		return ir.TruthFromBool(v%2 == 0)
	}}
	assert.Equal(t, ir.True, EvalPredicate(fn, ir.NewTuple("n", 4)))
	assert.Equal(t, ir.False, EvalPredicate(fn, ir.NewTuple("n", 5)))
	assert.Equal(t, ir.Unknown, EvalPredicate(fn, ir.NewTuple("n", nil)))
	assert.Equal(t, ir.Unknown, EvalPredicate(Func{Key: "nil"}, ir.Tuple{}))
}

func TestEqualPredicates(t *testing.T) {
	a := ColEq("x", ir.Int(1))
	b := ColEq("x", ir.Int(1))
	c := ColEq("x", ir.Int(2))

	tests := []struct {
		name string
		p, q Predicate
		want bool
	}{
		{"identical compares", a, b, true},
		{"different literal", a, c, false},
		{"true vs true", TruePred{}, TruePred{}, true},
		{"true vs false", TruePred{}, FalsePred{}, false},
		{"and same order", AndPred{L: a, R: c}, AndPred{L: a, R: c}, true},
		{"and swapped is not equal", AndPred{L: a, R: c}, AndPred{L: c, R: a}, false},
		{"not", Not{P: a}, Not{P: b}, true},
		{"or vs and", OrPred{L: a, R: c}, AndPred{L: a, R: c}, false},
		{"func by key", Func{Key: "k"}, Func{Key: "k", Fn: func(ir.Tuple) ir.Truth { return ir.True }}, true},
		{"func key mismatch", Func{Key: "k"}, Func{Key: "j"}, false},
		{"null literals equal", ColEq("x", ir.Null{}), ColEq("x", ir.Null{}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EqualPredicates(tt.p, tt.q))
		})
	}
}
