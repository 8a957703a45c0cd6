// Package sqlgen renders plans as readable SQL-ish text and explain-style
// plan trees. The output is for humans and golden tests; nothing in the
// core parses it back.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/planir"
)

const indentUnit = "    "

// RenderSQL pretty-prints a plan as indented SQL. Inline relations render
// as VALUES lists; constructs SQL has no direct spelling for (rename,
// opaque predicates) carry a comment. Output is deterministic for a given
// plan.
func RenderSQL(e planir.RelExpr) string {
	return renderExpr(e, 0)
}

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

func renderExpr(e planir.RelExpr, depth int) string {
	prefix := indent(depth)
	switch expr := e.(type) {
	case planir.Base:
		return renderBase(expr, depth)
	case planir.Select:
		return fmt.Sprintf("%sSELECT *\n%sFROM (\n%s\n%s) AS t\n%sWHERE %s",
			prefix, prefix, renderExpr(expr.Input, depth+1), prefix, prefix,
			RenderPredicate(expr.Pred))
	case planir.Project:
		return fmt.Sprintf("%sSELECT %s\n%sFROM (\n%s\n%s) AS t",
			prefix, columnList(expr.Columns), prefix,
			renderExpr(expr.Input, depth+1), prefix)
	case planir.Cross:
		return fmt.Sprintf("%sSELECT *\n%sFROM (\n%s\n%s) AS l\n%sCROSS JOIN (\n%s\n%s) AS r",
			prefix, prefix, renderExpr(expr.Left, depth+1), prefix, prefix,
			renderExpr(expr.Right, depth+1), prefix)
	case planir.Join:
		return fmt.Sprintf("%sSELECT *\n%sFROM (\n%s\n%s) AS l\n%sJOIN (\n%s\n%s) AS r\n%sON %s",
			prefix, prefix, renderExpr(expr.Left, depth+1), prefix, prefix,
			renderExpr(expr.Right, depth+1), prefix, prefix,
			RenderPredicate(expr.Pred))
	case planir.Rename:
		return fmt.Sprintf("%sSELECT * -- RENAME %s AS %s\n%sFROM (\n%s\n%s) AS t",
			prefix, expr.Old, expr.New, prefix,
			renderExpr(expr.Input, depth+1), prefix)
	case planir.Union:
		return renderSetOp("UNION ALL", expr.Left, expr.Right, depth)
	case planir.Intersect:
		return renderSetOp("INTERSECT ALL", expr.Left, expr.Right, depth)
	case planir.Difference:
		return renderSetOp("EXCEPT ALL", expr.Left, expr.Right, depth)
	default:
		return prefix + "-- unknown plan node"
	}
}

func renderSetOp(op string, left, right planir.RelExpr, depth int) string {
	prefix := indent(depth)
	return fmt.Sprintf("%s\n%s%s\n%s",
		renderExpr(left, depth), prefix, op, renderExpr(right, depth))
}

func renderBase(b planir.Base, depth int) string {
	prefix := indent(depth)
	if b.Name != "" {
		return fmt.Sprintf("%sTABLE %s", prefix, b.Name)
	}
	if len(b.Rel.Tuples) == 0 {
		return fmt.Sprintf("%sSELECT %s WHERE FALSE -- empty %s",
			prefix, emptySelectList(b.Rel.Schema), schemaComment(b.Rel.Schema))
	}
	rows := make([]string, len(b.Rel.Tuples))
	for i, t := range b.Rel.Tuples {
		vals := make([]string, len(t))
		for j, f := range t {
			vals[j] = renderValue(f.Value)
		}
		rows[i] = "(" + strings.Join(vals, ", ") + ")"
	}
	return fmt.Sprintf("%sVALUES %s -- %s",
		prefix, strings.Join(rows, ", "), schemaComment(b.Rel.Schema))
}

func emptySelectList(schema ir.Schema) string {
	if len(schema) == 0 {
		return "NULL"
	}
	parts := make([]string, len(schema))
	for i, col := range schema {
		parts[i] = "NULL AS " + col
	}
	return strings.Join(parts, ", ")
}

func schemaComment(schema ir.Schema) string {
	return "(" + strings.Join(schema, ", ") + ")"
}

func columnList(cols ir.Schema) string {
	if len(cols) == 0 {
		return "*"
	}
	return strings.Join(cols, ", ")
}

// RenderPredicate spells a predicate as a SQL condition. Opaque Func
// predicates have no SQL form and render as a tagged comment.
func RenderPredicate(p planir.Predicate) string {
	switch pred := p.(type) {
	case planir.TruePred:
		return "TRUE"
	case planir.FalsePred:
		return "FALSE"
	case planir.Not:
		return "NOT (" + RenderPredicate(pred.P) + ")"
	case planir.AndPred:
		return "(" + RenderPredicate(pred.L) + " AND " + RenderPredicate(pred.R) + ")"
	case planir.OrPred:
		return "(" + RenderPredicate(pred.L) + " OR " + RenderPredicate(pred.R) + ")"
	case planir.Compare:
		return renderOperand(pred.Left) + " " + string(pred.Op) + " " + renderOperand(pred.Right)
	case planir.Func:
		return fmt.Sprintf("/* opaque predicate %q */ TRUE", pred.Key)
	default:
		return "/* unknown predicate */"
	}
}

func renderOperand(o planir.Operand) string {
	switch op := o.(type) {
	case planir.Column:
		return op.Name
	case planir.Literal:
		return renderValue(op.Value)
	default:
		return "?"
	}
}

func renderValue(v ir.Value) string {
	switch val := v.(type) {
	case nil, ir.Null:
		return "NULL"
	case ir.Bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case ir.Int:
		return fmt.Sprintf("%d", int64(val))
	case ir.String:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	default:
		return "?"
	}
}
