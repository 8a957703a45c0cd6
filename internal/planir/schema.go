package planir

import "github.com/pgrsql/relcore/internal/ir"

// OutputSchema computes the schema a plan will produce without evaluating
// it. Rewrite preconditions (schema equality for union rules) and the
// empty-relation replacements depend on it.
//
// The computation mirrors the operators exactly: selection and set
// operations keep their (left) input schema, projection replaces it,
// cross and join concatenate, rename substitutes.
func OutputSchema(e RelExpr) ir.Schema {
	switch expr := e.(type) {
	case Base:
		return expr.Rel.Schema
	case Select:
		return OutputSchema(expr.Input)
	case Project:
		return expr.Columns
	case Cross:
		return OutputSchema(expr.Left).Concat(OutputSchema(expr.Right))
	case Join:
		return OutputSchema(expr.Left).Concat(OutputSchema(expr.Right))
	case Rename:
		return OutputSchema(expr.Input).Rename(expr.Old, expr.New)
	case Union:
		return OutputSchema(expr.Left)
	case Intersect:
		return OutputSchema(expr.Left)
	case Difference:
		return OutputSchema(expr.Left)
	default:
		return nil
	}
}

// IsEmptyBase reports whether e is a Base leaf holding zero tuples with no
// unresolved name. Such a leaf is a statically known empty relation; the
// EmptyCross and ContradictionFilter rules key off it.
func IsEmptyBase(e RelExpr) bool {
	b, ok := e.(Base)
	return ok && b.Name == "" && len(b.Rel.Tuples) == 0
}

// HasUnboundLeaf reports whether e contains a named leaf that has not been
// resolved to a concrete relation yet. OutputSchema under-reports over such
// a subtree - an unbound leaf contributes no columns - so rewrite rules
// that synthesize an empty relation from a computed schema decline to fire
// until the plan is bound. Binding preserves leaf names, so the test is
// for a named leaf whose relation is still the zero value.
func HasUnboundLeaf(e RelExpr) bool {
	switch expr := e.(type) {
	case Base:
		return expr.Name != "" && len(expr.Rel.Schema) == 0
	case Select:
		return HasUnboundLeaf(expr.Input)
	case Project:
		return HasUnboundLeaf(expr.Input)
	case Cross:
		return HasUnboundLeaf(expr.Left) || HasUnboundLeaf(expr.Right)
	case Join:
		return HasUnboundLeaf(expr.Left) || HasUnboundLeaf(expr.Right)
	case Rename:
		return HasUnboundLeaf(expr.Input)
	case Union:
		return HasUnboundLeaf(expr.Left) || HasUnboundLeaf(expr.Right)
	case Intersect:
		return HasUnboundLeaf(expr.Left) || HasUnboundLeaf(expr.Right)
	case Difference:
		return HasUnboundLeaf(expr.Left) || HasUnboundLeaf(expr.Right)
	default:
		return false
	}
}
