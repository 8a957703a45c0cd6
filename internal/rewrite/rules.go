package rewrite

import (
	"github.com/pgrsql/relcore/internal/planir"
)

// FilterMerge collapses stacked selections into one conjunctive selection:
// Select(c, Select(d, R)) becomes Select(And(d, c), R). The inner
// predicate goes on the left of the conjunction, matching evaluation
// order.
type FilterMerge struct{}

// Name implements Rule.
func (FilterMerge) Name() string { return "filter_merge" }

// Description implements Rule.
func (FilterMerge) Description() string {
	return "Merges stacked filters into a single conjunctive filter"
}

// Apply implements Rule.
func (FilterMerge) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	outer, ok := e.(planir.Select)
	if !ok {
		return e, false
	}
	inner, ok := outer.Input.(planir.Select)
	if !ok {
		return e, false
	}
	return planir.Select{
		Pred:  planir.AndPred{L: inner.Pred, R: outer.Pred},
		Input: inner.Input,
	}, true
}

// FilterCommute swaps two stacked selections: Select(c, Select(d, R))
// becomes Select(d, Select(c, R)). It exists to reorder filters, not as a
// simplification; FilterMerge precedes it in the catalog, so under the
// default ordering it only fires when merging has been ruled out.
type FilterCommute struct{}

// Name implements Rule.
func (FilterCommute) Name() string { return "filter_commute" }

// Description implements Rule.
func (FilterCommute) Description() string {
	return "Swaps the order of two stacked filters"
}

// Apply implements Rule.
func (FilterCommute) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	outer, ok := e.(planir.Select)
	if !ok {
		return e, false
	}
	inner, ok := outer.Input.(planir.Select)
	if !ok {
		return e, false
	}
	return planir.Select{
		Pred: inner.Pred,
		Input: planir.Select{
			Pred:  outer.Pred,
			Input: inner.Input,
		},
	}, true
}

// FilterIdempotent drops a duplicated selection: Select(c, Select(c, R))
// becomes Select(c, R). The predicates must be structurally identical;
// no logical equivalence is re-derived.
type FilterIdempotent struct{}

// Name implements Rule.
func (FilterIdempotent) Name() string { return "filter_idempotent" }

// Description implements Rule.
func (FilterIdempotent) Description() string {
	return "Removes a filter stacked on an identical filter"
}

// Apply implements Rule.
func (FilterIdempotent) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	outer, ok := e.(planir.Select)
	if !ok {
		return e, false
	}
	inner, ok := outer.Input.(planir.Select)
	if !ok {
		return e, false
	}
	if !planir.EqualPredicates(outer.Pred, inner.Pred) {
		return e, false
	}
	return inner, true
}

// IdentityFilter removes a trivially true selection: Select(True, R)
// becomes R.
type IdentityFilter struct{}

// Name implements Rule.
func (IdentityFilter) Name() string { return "identity_filter" }

// Description implements Rule.
func (IdentityFilter) Description() string {
	return "Removes a filter whose predicate is constant TRUE"
}

// Apply implements Rule.
func (IdentityFilter) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	sel, ok := e.(planir.Select)
	if !ok {
		return e, false
	}
	if _, ok := sel.Pred.(planir.TruePred); !ok {
		return e, false
	}
	return sel.Input, true
}

// ContradictionFilter replaces a trivially false selection with the empty
// relation over the input's schema: Select(False, R) becomes Empty(schema(R)).
// It declines while the input still contains an unbound leaf, whose columns
// the static schema cannot see.
type ContradictionFilter struct{}

// Name implements Rule.
func (ContradictionFilter) Name() string { return "contradiction_filter" }

// Description implements Rule.
func (ContradictionFilter) Description() string {
	return "Replaces a constant-FALSE filter with an empty relation"
}

// Apply implements Rule.
func (ContradictionFilter) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	sel, ok := e.(planir.Select)
	if !ok {
		return e, false
	}
	if _, ok := sel.Pred.(planir.FalsePred); !ok {
		return e, false
	}
	if planir.HasUnboundLeaf(sel.Input) {
		return e, false
	}
	return planir.EmptyExpr(planir.OutputSchema(sel.Input)), true
}

// FilterOverUnion pushes a selection below a bag union:
// Select(c, Union(R, S)) becomes Union(Select(c, R), Select(c, S)).
// Precondition: both union arms produce the same schema. Bag union is
// concatenation, so filtering each arm preserves the exact row order.
type FilterOverUnion struct{}

// Name implements Rule.
func (FilterOverUnion) Name() string { return "filter_over_union" }

// Description implements Rule.
func (FilterOverUnion) Description() string {
	return "Pushes a filter below both arms of a union"
}

// Apply implements Rule.
func (FilterOverUnion) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	sel, ok := e.(planir.Select)
	if !ok {
		return e, false
	}
	un, ok := sel.Input.(planir.Union)
	if !ok {
		return e, false
	}
	if !planir.OutputSchema(un.Left).Equal(planir.OutputSchema(un.Right)) {
		return e, false
	}
	return planir.Union{
		Left:  planir.Select{Pred: sel.Pred, Input: un.Left},
		Right: planir.Select{Pred: sel.Pred, Input: un.Right},
	}, true
}

// UnionAssoc reassociates unions to the right: Union(Union(R, S), T)
// becomes Union(R, Union(S, T)). Precondition: all three schemas equal.
// Concatenation is associative, so the tuple sequence is unchanged.
type UnionAssoc struct{}

// Name implements Rule.
func (UnionAssoc) Name() string { return "union_assoc" }

// Description implements Rule.
func (UnionAssoc) Description() string {
	return "Reassociates nested unions to the right"
}

// Apply implements Rule.
func (UnionAssoc) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	outer, ok := e.(planir.Union)
	if !ok {
		return e, false
	}
	inner, ok := outer.Left.(planir.Union)
	if !ok {
		return e, false
	}
	r := planir.OutputSchema(inner.Left)
	s := planir.OutputSchema(inner.Right)
	t := planir.OutputSchema(outer.Right)
	if !r.Equal(s) || !s.Equal(t) {
		return e, false
	}
	return planir.Union{
		Left:  inner.Left,
		Right: planir.Union{Left: inner.Right, Right: outer.Right},
	}, true
}

// EmptyCross eliminates a cross product against a statically empty leaf:
// either orientation collapses to the empty relation over the
// concatenated schema. It declines while either side contains an unbound
// leaf, whose columns the static schema cannot see.
type EmptyCross struct{}

// Name implements Rule.
func (EmptyCross) Name() string { return "empty_cross" }

// Description implements Rule.
func (EmptyCross) Description() string {
	return "Collapses a cross product with a known-empty side"
}

// Apply implements Rule.
func (EmptyCross) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	cross, ok := e.(planir.Cross)
	if !ok {
		return e, false
	}
	if !planir.IsEmptyBase(cross.Left) && !planir.IsEmptyBase(cross.Right) {
		return e, false
	}
	if planir.HasUnboundLeaf(cross.Left) || planir.HasUnboundLeaf(cross.Right) {
		return e, false
	}
	schema := planir.OutputSchema(cross.Left).Concat(planir.OutputSchema(cross.Right))
	return planir.EmptyExpr(schema), true
}

// JoinDecomposition canonicalizes a theta join into its definition:
// Join(p, R, S) becomes Select(p, Cross(R, S)). Always available; this is
// a canonicalization step, not a cost win.
type JoinDecomposition struct{}

// Name implements Rule.
func (JoinDecomposition) Name() string { return "join_decomposition" }

// Description implements Rule.
func (JoinDecomposition) Description() string {
	return "Rewrites a theta join as a filter over a cross product"
}

// Apply implements Rule.
func (JoinDecomposition) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	join, ok := e.(planir.Join)
	if !ok {
		return e, false
	}
	return planir.Select{
		Pred:  join.Pred,
		Input: planir.Cross{Left: join.Left, Right: join.Right},
	}, true
}

// ProjectIdempotent drops a projection stacked on an identical projection:
// Project(A, Project(A, R)) becomes Project(A, R). The column lists must
// match exactly, in order.
//
// The general correctness of this rule rests on a property of the
// projection rebuild (re-projecting an already-projected tuple over the
// same columns reproduces it exactly) that is validated empirically by a
// property-based test rather than proven in closed form. See
// TestProjectIdempotentProperty.
type ProjectIdempotent struct{}

// Name implements Rule.
func (ProjectIdempotent) Name() string { return "project_idempotent" }

// Description implements Rule.
func (ProjectIdempotent) Description() string {
	return "Removes a projection stacked on an identical projection"
}

// Apply implements Rule.
func (ProjectIdempotent) Apply(e planir.RelExpr) (planir.RelExpr, bool) {
	outer, ok := e.(planir.Project)
	if !ok {
		return e, false
	}
	inner, ok := outer.Input.(planir.Project)
	if !ok {
		return e, false
	}
	if !outer.Columns.Equal(inner.Columns) {
		return e, false
	}
	return inner, true
}
