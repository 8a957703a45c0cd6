package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

func TestExplainTreeShapes(t *testing.T) {
	base := planir.Scan("employees")

	tests := []struct {
		name     string
		expr     planir.RelExpr
		nodeType string
		children int
	}{
		{"scan", base, "Seq Scan", 0},
		{"inline", planir.Inline(ir.NewRelation(ir.Schema{"a"}, ir.NewTuple("a", 1))), "Inline Relation", 0},
		{"filter", planir.Select{Pred: planir.TruePred{}, Input: base}, "Filter", 1},
		{"project", planir.Project{Columns: ir.Schema{"a"}, Input: base}, "Project", 1},
		{"cross", planir.Cross{Left: base, Right: base}, "Nested Loop", 2},
		{"join", planir.Join{Pred: planir.TruePred{}, Left: base, Right: base}, "Nested Loop", 2},
		{"rename", planir.Rename{Old: "a", New: "b", Input: base}, "Rename", 1},
		{"union", planir.Union{Left: base, Right: base}, "Append", 2},
		{"intersect", planir.Intersect{Left: base, Right: base}, "Intersect", 2},
		{"difference", planir.Difference{Left: base, Right: base}, "Except", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := ExplainTree(tt.expr)
			assert.Equal(t, tt.nodeType, node.NodeType)
			assert.Len(t, node.Children, tt.children)
		})
	}
}

func TestExplainOutput(t *testing.T) {
	plan := planir.Project{
		Columns: ir.Schema{"name"},
		Input: planir.Select{
			Pred:  planir.ColEq("dept", ir.String("eng")),
			Input: planir.Scan("employees"),
		},
	}
	golden(t).Assert(t, "explain_project", []byte(Explain(plan)))
}

func TestExplainInlineDetails(t *testing.T) {
	rel := ir.NewRelation(ir.Schema{"a", "b"}, ir.NewTuple("a", 1, "b", 2))
	node := ExplainTree(planir.Inline(rel))
	require.Len(t, node.Details, 2)
	assert.Equal(t, "rows=1", node.Details[0])
	assert.Equal(t, "columns=(a, b)", node.Details[1])
}
