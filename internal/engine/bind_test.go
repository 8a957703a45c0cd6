package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

func TestBindResolvesNamedLeaves(t *testing.T) {
	src := MapSource{"employees": employees()}
	plan := planir.Select{
		Pred:  planir.ColEq("dept", ir.String("eng")),
		Input: planir.Scan("employees"),
	}

	bound, err := Bind(context.Background(), plan, src)
	require.NoError(t, err)

	got := Eval(bound)
	assert.Len(t, got.Tuples, 2)

	// The original tree still holds the unresolved leaf.
	leaf := plan.Input.(planir.Base)
	assert.Empty(t, leaf.Rel.Tuples)
}

func TestBindUnknownName(t *testing.T) {
	_, err := Bind(context.Background(), planir.Scan("nope"), MapSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestBindLeavesInlineLeavesAlone(t *testing.T) {
	inline := planir.Inline(employees())
	bound, err := Bind(context.Background(), inline, MapSource{})
	require.NoError(t, err)
	assert.True(t, Eval(bound).Equal(employees()))
}

func TestBindRecursesBothSides(t *testing.T) {
	src := MapSource{
		"employees":   employees(),
		"departments": departments(),
	}
	plan := planir.Join{
		Pred:  planir.TruePred{},
		Left:  planir.Scan("employees"),
		Right: planir.Scan("departments"),
	}
	bound, err := Bind(context.Background(), plan, src)
	require.NoError(t, err)
	assert.Len(t, Eval(bound).Tuples, 6)
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func(_ context.Context, name string) (ir.Relation, error) {
		return ir.NewRelation(ir.Schema{"n"}, ir.NewTuple("n", name)), nil
	})
	rel, err := src.Relation(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, ir.String("t"), rel.Tuples[0].Lookup("n"))
}
