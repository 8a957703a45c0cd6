package planir

import (
	"fmt"

	"github.com/pgrsql/relcore/internal/ir"
)

// Encode lowers a plan to a plain map structure with a single "op" tag per
// node. The encoding feeds canonical JSON for fingerprints and the CLI's
// JSON output; it is not a wire format the core reads back.
func Encode(e RelExpr) (map[string]any, error) {
	switch expr := e.(type) {
	case Base:
		m := map[string]any{"op": "base"}
		if expr.Name != "" {
			m["name"] = expr.Name
		}
		m["rel"] = expr.Rel
		return m, nil
	case Select:
		p, err := EncodePredicate(expr.Pred)
		if err != nil {
			return nil, err
		}
		in, err := Encode(expr.Input)
		if err != nil {
			return nil, err
		}
		return map[string]any{"op": "select", "pred": p, "input": in}, nil
	case Project:
		in, err := Encode(expr.Input)
		if err != nil {
			return nil, err
		}
		cols := make([]any, len(expr.Columns))
		for i, c := range expr.Columns {
			cols[i] = c
		}
		return map[string]any{"op": "project", "columns": cols, "input": in}, nil
	case Cross:
		return encodeBinary("cross", expr.Left, expr.Right)
	case Join:
		p, err := EncodePredicate(expr.Pred)
		if err != nil {
			return nil, err
		}
		m, err := encodeBinary("join", expr.Left, expr.Right)
		if err != nil {
			return nil, err
		}
		m["pred"] = p
		return m, nil
	case Rename:
		in, err := Encode(expr.Input)
		if err != nil {
			return nil, err
		}
		return map[string]any{"op": "rename", "old": expr.Old, "new": expr.New, "input": in}, nil
	case Union:
		return encodeBinary("union", expr.Left, expr.Right)
	case Intersect:
		return encodeBinary("intersect", expr.Left, expr.Right)
	case Difference:
		return encodeBinary("difference", expr.Left, expr.Right)
	default:
		return nil, fmt.Errorf("unknown RelExpr type: %T", e)
	}
}

func encodeBinary(op string, left, right RelExpr) (map[string]any, error) {
	l, err := Encode(left)
	if err != nil {
		return nil, err
	}
	r, err := Encode(right)
	if err != nil {
		return nil, err
	}
	return map[string]any{"op": op, "left": l, "right": r}, nil
}

// EncodePredicate lowers a predicate to the same plain map structure.
// Func predicates encode by key alone; the function itself has no
// serializable form.
func EncodePredicate(p Predicate) (map[string]any, error) {
	switch pred := p.(type) {
	case TruePred:
		return map[string]any{"op": "true"}, nil
	case FalsePred:
		return map[string]any{"op": "false"}, nil
	case Not:
		inner, err := EncodePredicate(pred.P)
		if err != nil {
			return nil, err
		}
		return map[string]any{"op": "not", "p": inner}, nil
	case AndPred:
		return encodeBinaryPred("and", pred.L, pred.R)
	case OrPred:
		return encodeBinaryPred("or", pred.L, pred.R)
	case Compare:
		l, err := encodeOperand(pred.Left)
		if err != nil {
			return nil, err
		}
		r, err := encodeOperand(pred.Right)
		if err != nil {
			return nil, err
		}
		return map[string]any{"op": "cmp", "cmp": string(pred.Op), "left": l, "right": r}, nil
	case Func:
		return map[string]any{"op": "func", "key": pred.Key}, nil
	default:
		return nil, fmt.Errorf("unknown Predicate type: %T", p)
	}
}

func encodeBinaryPred(op string, left, right Predicate) (map[string]any, error) {
	l, err := EncodePredicate(left)
	if err != nil {
		return nil, err
	}
	r, err := EncodePredicate(right)
	if err != nil {
		return nil, err
	}
	return map[string]any{"op": op, "left": l, "right": r}, nil
}

func encodeOperand(o Operand) (map[string]any, error) {
	switch op := o.(type) {
	case Column:
		return map[string]any{"kind": "column", "name": op.Name}, nil
	case Literal:
		var v ir.Value = op.Value
		if v == nil {
			v = ir.Null{}
		}
		return map[string]any{"kind": "literal", "value": v}, nil
	default:
		return nil, fmt.Errorf("unknown Operand type: %T", o)
	}
}

// Fingerprint returns a stable content hash of a plan. Structurally equal
// trees produce identical fingerprints; the rewrite driver's fixed-point
// check and trace identities rely on this.
func Fingerprint(e RelExpr) (string, error) {
	m, err := Encode(e)
	if err != nil {
		return "", fmt.Errorf("plan fingerprint: %w", err)
	}
	canonical, err := ir.MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("plan fingerprint: %w", err)
	}
	return ir.HashWithDomain(ir.DomainPlan, canonical), nil
}

// MustFingerprint is Fingerprint for plans known to encode cleanly.
func MustFingerprint(e RelExpr) string {
	fp, err := Fingerprint(e)
	if err != nil {
		panic(err)
	}
	return fp
}
