package sqlgen

import (
	"fmt"
	"strings"

	"github.com/pgrsql/relcore/internal/planir"
)

// PlanNode is one line of an explain tree: an operator label, optional
// detail strings, and children.
type PlanNode struct {
	NodeType string
	Details  []string
	Children []PlanNode
}

// ExplainTree converts a plan into its explain representation.
func ExplainTree(e planir.RelExpr) PlanNode {
	switch expr := e.(type) {
	case planir.Base:
		if expr.Name != "" {
			return PlanNode{
				NodeType: "Seq Scan",
				Details:  []string{"on " + expr.Name},
			}
		}
		return PlanNode{
			NodeType: "Inline Relation",
			Details: []string{
				fmt.Sprintf("rows=%d", len(expr.Rel.Tuples)),
				"columns=" + schemaComment(expr.Rel.Schema),
			},
		}
	case planir.Select:
		return PlanNode{
			NodeType: "Filter",
			Details:  []string{"cond: " + RenderPredicate(expr.Pred)},
			Children: []PlanNode{ExplainTree(expr.Input)},
		}
	case planir.Project:
		return PlanNode{
			NodeType: "Project",
			Details:  []string{"columns: " + columnList(expr.Columns)},
			Children: []PlanNode{ExplainTree(expr.Input)},
		}
	case planir.Cross:
		return PlanNode{
			NodeType: "Nested Loop",
			Details:  []string{"cross product"},
			Children: []PlanNode{ExplainTree(expr.Left), ExplainTree(expr.Right)},
		}
	case planir.Join:
		return PlanNode{
			NodeType: "Nested Loop",
			Details:  []string{"join cond: " + RenderPredicate(expr.Pred)},
			Children: []PlanNode{ExplainTree(expr.Left), ExplainTree(expr.Right)},
		}
	case planir.Rename:
		return PlanNode{
			NodeType: "Rename",
			Details:  []string{fmt.Sprintf("%s -> %s", expr.Old, expr.New)},
			Children: []PlanNode{ExplainTree(expr.Input)},
		}
	case planir.Union:
		return PlanNode{
			NodeType: "Append",
			Details:  []string{"union all"},
			Children: []PlanNode{ExplainTree(expr.Left), ExplainTree(expr.Right)},
		}
	case planir.Intersect:
		return PlanNode{
			NodeType: "Intersect",
			Children: []PlanNode{ExplainTree(expr.Left), ExplainTree(expr.Right)},
		}
	case planir.Difference:
		return PlanNode{
			NodeType: "Except",
			Children: []PlanNode{ExplainTree(expr.Left), ExplainTree(expr.Right)},
		}
	default:
		return PlanNode{NodeType: "Unknown"}
	}
}

// Explain renders a plan the way EXPLAIN output reads: one node per line,
// children introduced by an arrow and indented under their parent.
func Explain(e planir.RelExpr) string {
	var sb strings.Builder
	writeNode(&sb, ExplainTree(e), 0, false)
	return strings.TrimRight(sb.String(), "\n")
}

func writeNode(sb *strings.Builder, n PlanNode, depth int, arrow bool) {
	pad := strings.Repeat("  ", depth)
	label := n.NodeType
	if len(n.Details) > 0 {
		label += "  (" + strings.Join(n.Details, ", ") + ")"
	}
	if arrow {
		fmt.Fprintf(sb, "%s->  %s\n", pad, label)
	} else {
		fmt.Fprintf(sb, "%s%s\n", pad, label)
	}
	for _, child := range n.Children {
		writeNode(sb, child, depth+1, true)
	}
}
