// Package rewrite is the rule-based plan optimizer: a fixed catalog of
// equivalence-preserving local rules plus a fixed-point driver.
//
// Every rule in the catalog is externally certified equivalence-preserving;
// the catalog here must match that certified set exactly. Adding a rule
// without certification is a process violation, not something this package
// can detect at runtime.
package rewrite

import "github.com/pgrsql/relcore/internal/planir"

// Rule is a single local rewrite. Apply inspects a node whose children are
// already rewritten and either returns a replacement with fired=true, or
// the input unchanged with fired=false. A violated precondition means the
// rule does not fire - rules cannot fail.
//
// Apply must never mutate its argument; replacements are fresh nodes.
type Rule interface {
	// Name uniquely identifies the rule in traces.
	Name() string

	// Description explains the transformation in one line.
	Description() string

	// Apply attempts the rewrite at the given node.
	Apply(e planir.RelExpr) (planir.RelExpr, bool)
}

// Catalog returns the published rule set in its fixed application order.
// When several rules match the same node, the driver applies the first in
// this order - an explicit deterministic policy, not a cost decision.
func Catalog() []Rule {
	return []Rule{
		FilterMerge{},
		FilterCommute{},
		FilterIdempotent{},
		IdentityFilter{},
		ContradictionFilter{},
		FilterOverUnion{},
		UnionAssoc{},
		EmptyCross{},
		JoinDecomposition{},
		ProjectIdempotent{},
	}
}
