package engine

import (
	"context"
	"fmt"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

// Source supplies concrete relations for named Base leaves. It is the
// storage-layer collaborator from the core's point of view: a table scan,
// an inline fixture set, or anything else that can hand over raw rows.
type Source interface {
	Relation(ctx context.Context, name string) (ir.Relation, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, name string) (ir.Relation, error)

// Relation implements Source.
func (f SourceFunc) Relation(ctx context.Context, name string) (ir.Relation, error) {
	return f(ctx, name)
}

// MapSource serves relations from an in-memory map, keyed by name.
type MapSource map[string]ir.Relation

// Relation implements Source.
func (m MapSource) Relation(_ context.Context, name string) (ir.Relation, error) {
	rel, ok := m[name]
	if !ok {
		return ir.Relation{}, fmt.Errorf("unknown relation %q", name)
	}
	return rel, nil
}

// Bind resolves every named Base leaf against src, returning a new tree
// with inline relations at the leaves. The input tree is never modified.
// Unnamed leaves (inline relations, including the canonical empty
// relation) pass through untouched.
func Bind(ctx context.Context, e planir.RelExpr, src Source) (planir.RelExpr, error) {
	switch expr := e.(type) {
	case planir.Base:
		if expr.Name == "" {
			return expr, nil
		}
		rel, err := src.Relation(ctx, expr.Name)
		if err != nil {
			return nil, fmt.Errorf("bind %q: %w", expr.Name, err)
		}
		return planir.Base{Name: expr.Name, Rel: rel}, nil
	case planir.Select:
		in, err := Bind(ctx, expr.Input, src)
		if err != nil {
			return nil, err
		}
		return planir.Select{Pred: expr.Pred, Input: in}, nil
	case planir.Project:
		in, err := Bind(ctx, expr.Input, src)
		if err != nil {
			return nil, err
		}
		return planir.Project{Columns: expr.Columns, Input: in}, nil
	case planir.Cross:
		l, r, err := bindPair(ctx, expr.Left, expr.Right, src)
		if err != nil {
			return nil, err
		}
		return planir.Cross{Left: l, Right: r}, nil
	case planir.Join:
		l, r, err := bindPair(ctx, expr.Left, expr.Right, src)
		if err != nil {
			return nil, err
		}
		return planir.Join{Pred: expr.Pred, Left: l, Right: r}, nil
	case planir.Rename:
		in, err := Bind(ctx, expr.Input, src)
		if err != nil {
			return nil, err
		}
		return planir.Rename{Old: expr.Old, New: expr.New, Input: in}, nil
	case planir.Union:
		l, r, err := bindPair(ctx, expr.Left, expr.Right, src)
		if err != nil {
			return nil, err
		}
		return planir.Union{Left: l, Right: r}, nil
	case planir.Intersect:
		l, r, err := bindPair(ctx, expr.Left, expr.Right, src)
		if err != nil {
			return nil, err
		}
		return planir.Intersect{Left: l, Right: r}, nil
	case planir.Difference:
		l, r, err := bindPair(ctx, expr.Left, expr.Right, src)
		if err != nil {
			return nil, err
		}
		return planir.Difference{Left: l, Right: r}, nil
	default:
		return nil, fmt.Errorf("unknown RelExpr type: %T", e)
	}
}

func bindPair(ctx context.Context, left, right planir.RelExpr, src Source) (planir.RelExpr, planir.RelExpr, error) {
	l, err := Bind(ctx, left, src)
	if err != nil {
		return nil, nil, err
	}
	r, err := Bind(ctx, right, src)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
