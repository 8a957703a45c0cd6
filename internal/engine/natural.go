package engine

import "github.com/pgrsql/relcore/internal/ir"

// NaturalJoin joins r and s on equality of every column name present in
// both schemas. It is built on the theta join, not implemented
// independently.
//
// NULL exclusion: a shared-column pair is never considered equal when
// either side is NULL, even if both are. The crossed tuple shadows the
// right side's occurrence of a shared name under first-match lookup, so
// the predicate reads the right-side value positionally.
func NaturalJoin(r, s ir.Relation) ir.Relation {
	type pair struct {
		leftName string
		rightPos int
	}
	var shared []pair
	for j, name := range s.Schema {
		for _, rname := range r.Schema {
			if rname == name {
				shared = append(shared, pair{leftName: name, rightPos: len(r.Schema) + j})
				break
			}
		}
	}

	pred := func(t ir.Tuple) ir.Truth {
		result := ir.True
		for _, p := range shared {
			lv := t.Lookup(p.leftName)
			var rv ir.Value = ir.Null{}
			if p.rightPos < len(t) {
				rv = t[p.rightPos].Value
			}
			result = ir.And(result, naturalEq(lv, rv))
		}
		return result
	}

	return Join(pred, r, s)
}

// naturalEq compares one shared-column pair. NULL on either side yields
// Unknown, which the join drops; definite values compare by variant and
// payload.
func naturalEq(a, b ir.Value) ir.Truth {
	if _, ok := a.(ir.Null); ok {
		return ir.Unknown
	}
	if _, ok := b.(ir.Null); ok {
		return ir.Unknown
	}
	return ir.TruthFromBool(ir.Equal(a, b))
}
