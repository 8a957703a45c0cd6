// Package testutil provides seeded generators for property-style tests:
// random relations and random predicates over a fixed schema. Everything
// is driven by an explicit *rand.Rand so failures reproduce from the seed.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

// NewRand returns a seeded generator. Tests pass a constant seed so runs
// are deterministic.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomValue draws one value: NULL, a small int, a short string, or a
// bool. NULLs are common on purpose - three-valued logic bugs hide in
// NULL-free data.
func RandomValue(r *rand.Rand) ir.Value {
	switch r.Intn(4) {
	case 0:
		return ir.Null{}
	case 1:
		return ir.Int(int64(r.Intn(10)))
	case 2:
		return ir.String(fmt.Sprintf("s%d", r.Intn(5)))
	default:
		return ir.Bool(r.Intn(2) == 0)
	}
}

// RandomRelation builds a relation over schema with up to maxRows tuples.
// The small value domain forces duplicate tuples, exercising bag
// semantics.
func RandomRelation(r *rand.Rand, schema ir.Schema, maxRows int) ir.Relation {
	rel := ir.Relation{Schema: schema.Clone()}
	rows := r.Intn(maxRows + 1)
	for i := 0; i < rows; i++ {
		tuple := make(ir.Tuple, len(schema))
		for j, col := range schema {
			tuple[j] = ir.Field{Name: col, Value: RandomValue(r)}
		}
		rel.Tuples = append(rel.Tuples, tuple)
	}
	return rel
}

// RandomPredicate builds a predicate over schema's columns with the given
// nesting depth. At depth zero it draws a leaf: a comparison between a
// column and a random literal (or another column), or a constant.
func RandomPredicate(r *rand.Rand, schema ir.Schema, depth int) planir.Predicate {
	if depth <= 0 || r.Intn(3) == 0 {
		return randomLeaf(r, schema)
	}
	switch r.Intn(3) {
	case 0:
		return planir.Not{P: RandomPredicate(r, schema, depth-1)}
	case 1:
		return planir.AndPred{
			L: RandomPredicate(r, schema, depth-1),
			R: RandomPredicate(r, schema, depth-1),
		}
	default:
		return planir.OrPred{
			L: RandomPredicate(r, schema, depth-1),
			R: RandomPredicate(r, schema, depth-1),
		}
	}
}

var cmpOps = []planir.CmpOp{
	planir.OpEq, planir.OpNe, planir.OpLt, planir.OpLe, planir.OpGt, planir.OpGe,
}

func randomLeaf(r *rand.Rand, schema ir.Schema) planir.Predicate {
	if len(schema) == 0 || r.Intn(6) == 0 {
		if r.Intn(2) == 0 {
			return planir.TruePred{}
		}
		return planir.FalsePred{}
	}

	left := planir.Col(schema[r.Intn(len(schema))])
	op := cmpOps[r.Intn(len(cmpOps))]
	if r.Intn(3) == 0 {
		return planir.Compare{Left: left, Op: op, Right: planir.Col(schema[r.Intn(len(schema))])}
	}
	return planir.Compare{Left: left, Op: op, Right: planir.Lit(RandomValue(r))}
}
