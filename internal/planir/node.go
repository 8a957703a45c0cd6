// Package planir defines the algebraic plan representation the rewrite
// engine transforms and the evaluator reduces to a concrete relation.
//
// A RelExpr is a strict tree: each composite node exclusively owns its
// children, and no sharing or cycles are representable by construction.
// Trees are never mutated after construction; the rewrite engine builds
// replacement nodes and leaves the input intact.
package planir

import "github.com/pgrsql/relcore/internal/ir"

// RelExpr is the sealed interface over plan nodes.
//
// Node types:
//   - Base: leaf holding (or naming) a concrete relation
//   - Select: keep tuples whose predicate is True
//   - Project: rebuild tuples over a column list
//   - Cross: cartesian product
//   - Join: theta join, defined as Select over Cross
//   - Rename: replace a column name
//   - Union: bag union (UNION ALL concatenation)
//   - Intersect: per-occurrence bag intersection
//   - Difference: bag difference
//
// The marker method seals the interface so the evaluator and the rewrite
// engine can rely on exhaustive type switches.
type RelExpr interface {
	relExpr() // Marker method - seals interface to this package
}

// Base is the only leaf. It either carries an inline relation or names one
// the storage layer supplies at bind time (see engine.Bind). An unnamed
// Base with no tuples is the canonical empty relation over its schema.
type Base struct {
	Name string // Optional source name for binding and rendering
	Rel  ir.Relation
}

func (Base) relExpr() {}

// Select keeps the tuples of Input for which Pred evaluates to True.
// False and Unknown rows are both dropped; the result alone cannot
// distinguish them.
type Select struct {
	Pred  Predicate
	Input RelExpr
}

func (Select) relExpr() {}

// Project rebuilds each tuple over Columns by first-match lookup in the
// source tuple. Duplicate or unknown names pass through literally; a
// missing column contributes no field. Validation is the planner's job,
// not this layer's.
type Project struct {
	Columns ir.Schema
	Input   RelExpr
}

func (Project) relExpr() {}

// Cross is the cartesian product. The schema is the concatenation of both
// sides' schemas, duplicates permitted.
type Cross struct {
	Left  RelExpr
	Right RelExpr
}

func (Cross) relExpr() {}

// Join is the theta join. Its meaning is exactly Select(Pred, Cross(Left,
// Right)); the rewrite engine relies on that identity (JoinDecomposition).
type Join struct {
	Pred  Predicate
	Left  RelExpr
	Right RelExpr
}

func (Join) relExpr() {}

// Rename replaces every occurrence of Old in the schema and in every tuple
// slot with New. If Old does not occur the relation is unchanged; if New
// already exists the result carries duplicate names.
type Rename struct {
	Old   string
	New   string
	Input RelExpr
}

func (Rename) relExpr() {}

// Union concatenates the tuples of both sides under Left's schema. The
// caller is responsible for matching schemas; this is SQL UNION ALL.
type Union struct {
	Left  RelExpr
	Right RelExpr
}

func (Union) relExpr() {}

// Intersect keeps each tuple of Left with at least one structurally equal
// tuple in Right. Duplicates in Left survive per occurrence.
type Intersect struct {
	Left  RelExpr
	Right RelExpr
}

func (Intersect) relExpr() {}

// Difference keeps each tuple of Left with no structurally equal tuple in
// Right.
type Difference struct {
	Left  RelExpr
	Right RelExpr
}

func (Difference) relExpr() {}

// Scan returns a named Base leaf with no inline tuples, to be resolved by
// the storage layer before evaluation.
func Scan(name string) Base {
	return Base{Name: name}
}

// Inline returns a Base leaf carrying a concrete relation.
func Inline(rel ir.Relation) Base {
	return Base{Rel: rel}
}

// EmptyExpr returns a Base leaf holding the empty relation over schema.
// Rewrite rules use it as the replacement for contradictions and empty
// cross products.
func EmptyExpr(schema ir.Schema) Base {
	return Base{Rel: ir.Empty(schema)}
}
