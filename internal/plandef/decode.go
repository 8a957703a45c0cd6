// Package plandef loads declarative plan definitions written in CUE: named
// base relations plus one algebraic plan over them. It is the repository's
// stand-in for the external planner - plans arrive as data, never as SQL
// text.
package plandef

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

// Def is a decoded plan definition.
type Def struct {
	// Relations maps source names to inline relations. Named Base leaves
	// in the plan resolve against it at bind time.
	Relations map[string]ir.Relation

	// Plan is the algebraic expression, with Base leaves still unbound.
	Plan planir.RelExpr
}

// Decode parses a full definition from a CUE value. The value must carry
// a `plan` field; `relations` is optional (a plan over inline leaves
// needs none).
func Decode(v cue.Value) (*Def, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &Def{Relations: map[string]ir.Relation{}}

	relsVal := v.LookupPath(cue.ParsePath("relations"))
	if relsVal.Exists() {
		iter, err := relsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Label()
			rel, err := decodeRelation(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("relation %q: %w", name, err)
			}
			def.Relations[name] = rel
		}
	}

	planVal := v.LookupPath(cue.ParsePath("plan"))
	if !planVal.Exists() {
		return nil, &DecodeError{Field: "plan", Message: "plan is required", Pos: v.Pos()}
	}
	plan, err := DecodeExpr(planVal)
	if err != nil {
		return nil, err
	}
	def.Plan = plan

	return def, nil
}

// decodeRelation parses {columns: [...], rows: [[...], ...]}.
func decodeRelation(v cue.Value) (ir.Relation, error) {
	schema, err := decodeColumns(v.LookupPath(cue.ParsePath("columns")), v)
	if err != nil {
		return ir.Relation{}, err
	}

	rel := ir.Relation{Schema: schema}
	rowsVal := v.LookupPath(cue.ParsePath("rows"))
	if !rowsVal.Exists() {
		return rel, nil
	}
	rows, err := rowsVal.List()
	if err != nil {
		return ir.Relation{}, formatCUEError(err)
	}
	for rows.Next() {
		cells, err := rows.Value().List()
		if err != nil {
			return ir.Relation{}, formatCUEError(err)
		}
		tuple := make(ir.Tuple, 0, len(schema))
		i := 0
		for cells.Next() {
			if i >= len(schema) {
				return ir.Relation{}, &DecodeError{
					Field:   "rows",
					Message: fmt.Sprintf("row has more cells than columns (%d)", len(schema)),
					Pos:     cells.Value().Pos(),
				}
			}
			val, err := decodeValue(cells.Value())
			if err != nil {
				return ir.Relation{}, err
			}
			tuple = append(tuple, ir.Field{Name: schema[i], Value: val})
			i++
		}
		rel.Tuples = append(rel.Tuples, tuple)
	}
	return rel, nil
}

func decodeColumns(v cue.Value, parent cue.Value) (ir.Schema, error) {
	if !v.Exists() {
		return nil, &DecodeError{Field: "columns", Message: "columns is required", Pos: parent.Pos()}
	}
	list, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var schema ir.Schema
	for list.Next() {
		name, err := list.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		schema = append(schema, name)
	}
	return schema, nil
}

// decodeValue maps a CUE scalar to a Value. CUE null becomes Null; floats
// are rejected because the value model has no float variant.
func decodeValue(v cue.Value) (ir.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return ir.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Bool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Int(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.String(s), nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &DecodeError{
			Field:   "value",
			Message: "float values are not representable",
			Pos:     v.Pos(),
		}
	default:
		return nil, &DecodeError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// DecodeExpr parses a plan node. Every node is a struct with exactly one
// operator key:
//
//	{base: "employees"}
//	{inline: {columns: [...], rows: [...]}}
//	{empty: {columns: [...]}}
//	{select: {where: <pred>, from: <expr>}}
//	{project: {columns: [...], from: <expr>}}
//	{cross: {left: <expr>, right: <expr>}}
//	{join: {on: <pred>, left: <expr>, right: <expr>}}
//	{rename: {old: "a", new: "b", from: <expr>}}
//	{union | intersect | difference: {left: <expr>, right: <expr>}}
func DecodeExpr(v cue.Value) (planir.RelExpr, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if base := v.LookupPath(cue.ParsePath("base")); base.Exists() {
		name, err := base.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return planir.Scan(name), nil
	}
	if inline := v.LookupPath(cue.ParsePath("inline")); inline.Exists() {
		rel, err := decodeRelation(inline)
		if err != nil {
			return nil, err
		}
		return planir.Inline(rel), nil
	}
	if empty := v.LookupPath(cue.ParsePath("empty")); empty.Exists() {
		schema, err := decodeColumns(empty.LookupPath(cue.ParsePath("columns")), empty)
		if err != nil {
			return nil, err
		}
		return planir.EmptyExpr(schema), nil
	}
	if sel := v.LookupPath(cue.ParsePath("select")); sel.Exists() {
		pred, err := decodeRequiredPred(sel, "where")
		if err != nil {
			return nil, err
		}
		in, err := decodeRequiredExpr(sel, "from")
		if err != nil {
			return nil, err
		}
		return planir.Select{Pred: pred, Input: in}, nil
	}
	if proj := v.LookupPath(cue.ParsePath("project")); proj.Exists() {
		schema, err := decodeColumns(proj.LookupPath(cue.ParsePath("columns")), proj)
		if err != nil {
			return nil, err
		}
		in, err := decodeRequiredExpr(proj, "from")
		if err != nil {
			return nil, err
		}
		return planir.Project{Columns: schema, Input: in}, nil
	}
	if cross := v.LookupPath(cue.ParsePath("cross")); cross.Exists() {
		l, r, err := decodePair(cross)
		if err != nil {
			return nil, err
		}
		return planir.Cross{Left: l, Right: r}, nil
	}
	if join := v.LookupPath(cue.ParsePath("join")); join.Exists() {
		pred, err := decodeRequiredPred(join, "on")
		if err != nil {
			return nil, err
		}
		l, r, err := decodePair(join)
		if err != nil {
			return nil, err
		}
		return planir.Join{Pred: pred, Left: l, Right: r}, nil
	}
	if ren := v.LookupPath(cue.ParsePath("rename")); ren.Exists() {
		old, err := requiredString(ren, "old")
		if err != nil {
			return nil, err
		}
		new, err := requiredString(ren, "new")
		if err != nil {
			return nil, err
		}
		in, err := decodeRequiredExpr(ren, "from")
		if err != nil {
			return nil, err
		}
		return planir.Rename{Old: old, New: new, Input: in}, nil
	}
	if un := v.LookupPath(cue.ParsePath("union")); un.Exists() {
		l, r, err := decodePair(un)
		if err != nil {
			return nil, err
		}
		return planir.Union{Left: l, Right: r}, nil
	}
	if in := v.LookupPath(cue.ParsePath("intersect")); in.Exists() {
		l, r, err := decodePair(in)
		if err != nil {
			return nil, err
		}
		return planir.Intersect{Left: l, Right: r}, nil
	}
	if diff := v.LookupPath(cue.ParsePath("difference")); diff.Exists() {
		l, r, err := decodePair(diff)
		if err != nil {
			return nil, err
		}
		return planir.Difference{Left: l, Right: r}, nil
	}

	return nil, &DecodeError{
		Field:   "plan",
		Message: "expected exactly one operator key (base, inline, empty, select, project, cross, join, rename, union, intersect, difference)",
		Pos:     v.Pos(),
	}
}

func decodePair(v cue.Value) (planir.RelExpr, planir.RelExpr, error) {
	l, err := decodeRequiredExpr(v, "left")
	if err != nil {
		return nil, nil, err
	}
	r, err := decodeRequiredExpr(v, "right")
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func decodeRequiredExpr(v cue.Value, field string) (planir.RelExpr, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, &DecodeError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	return DecodeExpr(fv)
}

func decodeRequiredPred(v cue.Value, field string) (planir.Predicate, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, &DecodeError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	return DecodePredicate(fv)
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &DecodeError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// DecodePredicate parses a predicate node, tagged by kind:
//
//	{kind: "true"} | {kind: "false"}
//	{kind: "not", of: <pred>}
//	{kind: "and" | "or", left: <pred>, right: <pred>}
//	{kind: "cmp", op: "=", left: <operand>, right: <operand>}
//
// Operands are {col: "name"} or {val: <scalar>}.
func DecodePredicate(v cue.Value) (planir.Predicate, error) {
	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "true":
		return planir.TruePred{}, nil
	case "false":
		return planir.FalsePred{}, nil
	case "not":
		inner, err := decodeRequiredPred(v, "of")
		if err != nil {
			return nil, err
		}
		return planir.Not{P: inner}, nil
	case "and", "or":
		l, err := decodeRequiredPred(v, "left")
		if err != nil {
			return nil, err
		}
		r, err := decodeRequiredPred(v, "right")
		if err != nil {
			return nil, err
		}
		if kind == "and" {
			return planir.AndPred{L: l, R: r}, nil
		}
		return planir.OrPred{L: l, R: r}, nil
	case "cmp":
		opStr, err := requiredString(v, "op")
		if err != nil {
			return nil, err
		}
		op, ok := cmpOps[opStr]
		if !ok {
			return nil, &DecodeError{
				Field:   "op",
				Message: fmt.Sprintf("invalid comparison operator %q", opStr),
				Pos:     v.Pos(),
			}
		}
		l, err := decodeOperand(v, "left")
		if err != nil {
			return nil, err
		}
		r, err := decodeOperand(v, "right")
		if err != nil {
			return nil, err
		}
		return planir.Compare{Left: l, Op: op, Right: r}, nil
	default:
		return nil, &DecodeError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown predicate kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

var cmpOps = map[string]planir.CmpOp{
	"=":  planir.OpEq,
	"<>": planir.OpNe,
	"!=": planir.OpNe,
	"<":  planir.OpLt,
	"<=": planir.OpLe,
	">":  planir.OpGt,
	">=": planir.OpGe,
}

func decodeOperand(v cue.Value, field string) (planir.Operand, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, &DecodeError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	if col := fv.LookupPath(cue.ParsePath("col")); col.Exists() {
		name, err := col.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return planir.Col(name), nil
	}
	if lit := fv.LookupPath(cue.ParsePath("val")); lit.Exists() {
		val, err := decodeValue(lit)
		if err != nil {
			return nil, err
		}
		return planir.Lit(val), nil
	}
	return nil, &DecodeError{
		Field:   field,
		Message: "operand must be {col: ...} or {val: ...}",
		Pos:     fv.Pos(),
	}
}
