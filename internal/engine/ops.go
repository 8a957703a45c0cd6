// Package engine holds the relational operators and the plan evaluator.
//
// Every operator is a pure function over ir.Relation values: no mutation
// of inputs, no I/O, no error returns. Schema mismatches are not detected
// anywhere in this package - behavior on mismatched inputs is garbage in,
// garbage out, and validation belongs to the planner that built the plan.
package engine

import "github.com/pgrsql/relcore/internal/ir"

// Pred is a predicate in operator position: a pure, total function from
// tuple to three-valued truth.
type Pred func(ir.Tuple) ir.Truth

// Select keeps the tuples for which p yields True. Rows evaluating to
// False and rows evaluating to Unknown are both dropped; the output alone
// cannot tell them apart.
func Select(p Pred, r ir.Relation) ir.Relation {
	out := ir.Relation{Schema: r.Schema.Clone()}
	for _, t := range r.Tuples {
		if p(t).IsTrue() {
			out.Tuples = append(out.Tuples, t)
		}
	}
	return out
}

// Project rebuilds each tuple over cols by first-match lookup. A column
// absent from the source tuple contributes no field - not an error, and
// not an explicit NULL slot. Duplicate or unknown names in cols pass
// through literally.
func Project(cols ir.Schema, r ir.Relation) ir.Relation {
	out := ir.Relation{Schema: cols.Clone(), Tuples: make([]ir.Tuple, 0, len(r.Tuples))}
	for _, t := range r.Tuples {
		rebuilt := make(ir.Tuple, 0, len(cols))
		for _, col := range cols {
			if t.Has(col) {
				rebuilt = append(rebuilt, ir.Field{Name: col, Value: t.Lookup(col)})
			}
		}
		out.Tuples = append(out.Tuples, rebuilt)
	}
	return out
}

// Cross is the cartesian product: schema concatenation (duplicates
// permitted) and every pairing of tuples, left fields first. The tuple
// count is exactly |r|*|s|, including zero when either side is empty.
func Cross(r, s ir.Relation) ir.Relation {
	out := ir.Relation{Schema: r.Schema.Concat(s.Schema)}
	if len(r.Tuples) == 0 || len(s.Tuples) == 0 {
		return out
	}
	out.Tuples = make([]ir.Tuple, 0, len(r.Tuples)*len(s.Tuples))
	for _, rt := range r.Tuples {
		for _, st := range s.Tuples {
			out.Tuples = append(out.Tuples, rt.Concat(st))
		}
	}
	return out
}

// Join is the theta join, defined as selection after cross product. This
// definition is load-bearing: the JoinDecomposition rewrite rule replaces
// a Join node with exactly this composition, so the two must never drift.
func Join(p Pred, r, s ir.Relation) ir.Relation {
	return Select(p, Cross(r, s))
}

// Rename replaces every occurrence of old in the schema and in every tuple
// slot with new. A missing old leaves the relation unchanged; an already
// present new produces duplicate column names without complaint.
func Rename(old, new string, r ir.Relation) ir.Relation {
	out := ir.Relation{Schema: r.Schema.Rename(old, new), Tuples: make([]ir.Tuple, len(r.Tuples))}
	for i, t := range r.Tuples {
		out.Tuples[i] = t.Rename(old, new)
	}
	return out
}

// Union concatenates s's tuples after r's under r's schema. Bag union:
// no deduplication, order preserved, SQL UNION ALL.
func Union(r, s ir.Relation) ir.Relation {
	out := ir.Relation{Schema: r.Schema.Clone()}
	out.Tuples = make([]ir.Tuple, 0, len(r.Tuples)+len(s.Tuples))
	out.Tuples = append(out.Tuples, r.Tuples...)
	out.Tuples = append(out.Tuples, s.Tuples...)
	return out
}

// Intersect keeps each tuple of r that has at least one structurally equal
// tuple in s. Duplicates in r are preserved per occurrence.
func Intersect(r, s ir.Relation) ir.Relation {
	out := ir.Relation{Schema: r.Schema.Clone()}
	for _, t := range r.Tuples {
		if s.Contains(t) {
			out.Tuples = append(out.Tuples, t)
		}
	}
	return out
}

// Difference keeps each tuple of r with no structurally equal tuple in s.
func Difference(r, s ir.Relation) ir.Relation {
	out := ir.Relation{Schema: r.Schema.Clone()}
	for _, t := range r.Tuples {
		if !s.Contains(t) {
			out.Tuples = append(out.Tuples, t)
		}
	}
	return out
}
