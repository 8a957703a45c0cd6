package engine

import (
	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

// Eval reduces a plan to a concrete relation: a structural recursion with
// one case per RelExpr variant, each delegating to the corresponding
// operator on the evaluated children. Base is the identity leaf.
//
// Eval is pure and keeps no state between calls. It terminates because a
// RelExpr is a finite tree; cyclic input is not representable by
// construction, and the planner owes the core that invariant - a cycle
// smuggled in through unsafe construction would recurse without bound.
func Eval(e planir.RelExpr) ir.Relation {
	switch expr := e.(type) {
	case planir.Base:
		return expr.Rel
	case planir.Select:
		return Select(predFn(expr.Pred), Eval(expr.Input))
	case planir.Project:
		return Project(expr.Columns, Eval(expr.Input))
	case planir.Cross:
		return Cross(Eval(expr.Left), Eval(expr.Right))
	case planir.Join:
		return Join(predFn(expr.Pred), Eval(expr.Left), Eval(expr.Right))
	case planir.Rename:
		return Rename(expr.Old, expr.New, Eval(expr.Input))
	case planir.Union:
		return Union(Eval(expr.Left), Eval(expr.Right))
	case planir.Intersect:
		return Intersect(Eval(expr.Left), Eval(expr.Right))
	case planir.Difference:
		return Difference(Eval(expr.Left), Eval(expr.Right))
	default:
		// Unreachable for the sealed interface.
		return ir.Relation{}
	}
}

func predFn(p planir.Predicate) Pred {
	return func(t ir.Tuple) ir.Truth {
		return planir.EvalPredicate(p, t)
	}
}
