package harness

import (
	"context"
	"fmt"

	"github.com/pgrsql/relcore/internal/engine"
	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/plandef"
	"github.com/pgrsql/relcore/internal/planir"
	"github.com/pgrsql/relcore/internal/rewrite"
)

// Result captures everything a scenario run produced.
type Result struct {
	// Input is the bound plan before rewriting.
	Input planir.RelExpr

	// Rewrite is the full rewrite result for Input.
	Rewrite rewrite.Result

	// Before and After are the evaluations of the input and rewritten
	// plans. Equivalence between them is checked on every run.
	Before ir.Relation
	After  ir.Relation
}

// Run executes a scenario: load the plan definition, bind named leaves
// against its inline relations, rewrite, evaluate both sides, and apply
// the scenario's assertions. Any failed assertion is returned as an
// error; golden comparison is layered on separately.
func Run(scenario *Scenario) (*Result, error) {
	def, err := plandef.LoadFile(scenario.Plan)
	if err != nil {
		return nil, err
	}

	bound, err := engine.Bind(context.Background(), def.Plan, engine.MapSource(def.Relations))
	if err != nil {
		return nil, fmt.Errorf("bind plan: %w", err)
	}

	opts := []rewrite.Option{}
	if scenario.Rewrite != nil && scenario.Rewrite.MaxPasses > 0 {
		opts = append(opts, rewrite.WithMaxPasses(scenario.Rewrite.MaxPasses))
	}
	rw := rewrite.New(opts...).Rewrite(bound)

	result := &Result{
		Input:   bound,
		Rewrite: rw,
		Before:  engine.Eval(bound),
		After:   engine.Eval(rw.Expr),
	}

	// Rewriting must never change meaning, whatever the scenario pins.
	if !result.Before.Equal(result.After) {
		return result, fmt.Errorf("rewritten plan is not equivalent: %d rows before, %d after",
			len(result.Before.Tuples), len(result.After.Tuples))
	}

	if scenario.Expect != nil {
		if err := checkExpect(scenario.Expect, result.Before); err != nil {
			return result, err
		}
	}
	if scenario.Rewrite != nil {
		if err := checkRewrite(scenario.Rewrite, &rw); err != nil {
			return result, err
		}
	}
	return result, nil
}

func checkExpect(expect *ExpectClause, got ir.Relation) error {
	want := ir.Relation{Schema: ir.Schema(expect.Columns)}
	for i, row := range expect.Rows {
		if len(row) != len(expect.Columns) {
			return fmt.Errorf("expect.rows[%d]: %d cells for %d columns", i, len(row), len(expect.Columns))
		}
		tuple := make(ir.Tuple, len(row))
		for j, cell := range row {
			v, err := ir.FromGo(cell)
			if err != nil {
				return fmt.Errorf("expect.rows[%d][%d]: %w", i, j, err)
			}
			tuple[j] = ir.Field{Name: expect.Columns[j], Value: v}
		}
		want.Tuples = append(want.Tuples, tuple)
	}

	ok := got.Equal(want)
	if expect.Unordered {
		ok = got.EqualUnordered(want)
	}
	if !ok {
		return fmt.Errorf("result mismatch: got %d rows over %v, want %d rows over %v",
			len(got.Tuples), got.Schema, len(want.Tuples), want.Schema)
	}
	return nil
}

func checkRewrite(clause *RewriteClause, rw *rewrite.Result) error {
	if clause.FixedPoint != nil && rw.FixedPoint != *clause.FixedPoint {
		return fmt.Errorf("fixed point: got %v, want %v", rw.FixedPoint, *clause.FixedPoint)
	}
	if len(clause.Rules) > 0 {
		if len(rw.Steps) != len(clause.Rules) {
			return fmt.Errorf("rule firings: got %d steps, want %d", len(rw.Steps), len(clause.Rules))
		}
		for i, name := range clause.Rules {
			if rw.Steps[i].Rule != name {
				return fmt.Errorf("step %d: fired %q, want %q", i, rw.Steps[i].Rule, name)
			}
		}
	}
	return nil
}
