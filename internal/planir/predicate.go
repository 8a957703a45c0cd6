package planir

import "github.com/pgrsql/relcore/internal/ir"

// Predicate is the sealed interface over filter conditions. Semantically a
// predicate is a pure, total function from tuple to three-valued truth:
// any condition that cannot be evaluated (missing column, variant
// mismatch, NULL operand) yields Unknown, never an error.
//
// Predicate types:
//   - TruePred / FalsePred: constants
//   - Not, AndPred, OrPred: connectives with SQL truth tables
//   - Compare: column/literal comparison
//   - Func: opaque function with an identity key
type Predicate interface {
	predicate() // Marker method - seals interface to this package
}

// TruePred always evaluates to True.
type TruePred struct{}

func (TruePred) predicate() {}

// FalsePred always evaluates to False.
type FalsePred struct{}

func (FalsePred) predicate() {}

// Not negates its operand under three-valued logic.
type Not struct {
	P Predicate
}

func (Not) predicate() {}

// AndPred is the three-valued conjunction of two predicates.
type AndPred struct {
	L Predicate
	R Predicate
}

func (AndPred) predicate() {}

// OrPred is the three-valued disjunction of two predicates.
type OrPred struct {
	L Predicate
	R Predicate
}

func (OrPred) predicate() {}

// CmpOp enumerates the comparison operators.
type CmpOp string

const (
	OpEq CmpOp = "="
	OpNe CmpOp = "<>"
	OpLt CmpOp = "<"
	OpLe CmpOp = "<="
	OpGt CmpOp = ">"
	OpGe CmpOp = ">="
)

// Operand is the sealed interface over comparison operands: a column
// reference or a literal value.
type Operand interface {
	operand()
}

// Column references a tuple field by name, resolved first-match.
type Column struct {
	Name string
}

func (Column) operand() {}

// Literal is a constant value operand.
type Literal struct {
	Value ir.Value
}

func (Literal) operand() {}

// Compare evaluates Left op Right over a tuple. If either side is NULL, or
// the sides are different variants, or the variant does not admit ordering
// for an ordering operator, the result is Unknown.
type Compare struct {
	Left  Operand
	Op    CmpOp
	Right Operand
}

func (Compare) predicate() {}

// Func wraps an arbitrary pure function as a predicate. Key is the
// predicate's identity: two Func predicates are equal exactly when their
// keys match. Generated predicates in property tests use this.
type Func struct {
	Key string
	Fn  func(ir.Tuple) ir.Truth
}

func (Func) predicate() {}

// Col is shorthand for a column operand.
func Col(name string) Column {
	return Column{Name: name}
}

// Lit is shorthand for a literal operand.
func Lit(v ir.Value) Literal {
	return Literal{Value: v}
}

// ColEq builds the common column-equals-literal predicate.
func ColEq(name string, v ir.Value) Compare {
	return Compare{Left: Col(name), Op: OpEq, Right: Lit(v)}
}

// EvalPredicate reduces a predicate against a tuple. Total by
// construction: every branch lands on a Truth, never an error.
func EvalPredicate(p Predicate, t ir.Tuple) ir.Truth {
	switch pred := p.(type) {
	case TruePred:
		return ir.True
	case FalsePred:
		return ir.False
	case Not:
		return ir.Not(EvalPredicate(pred.P, t))
	case AndPred:
		return ir.And(EvalPredicate(pred.L, t), EvalPredicate(pred.R, t))
	case OrPred:
		return ir.Or(EvalPredicate(pred.L, t), EvalPredicate(pred.R, t))
	case Compare:
		return evalCompare(pred, t)
	case Func:
		if pred.Fn == nil {
			return ir.Unknown
		}
		return pred.Fn(t)
	default:
		return ir.Unknown
	}
}

func operandValue(o Operand, t ir.Tuple) ir.Value {
	switch op := o.(type) {
	case Column:
		return t.Lookup(op.Name)
	case Literal:
		if op.Value == nil {
			return ir.Null{}
		}
		return op.Value
	default:
		return ir.Null{}
	}
}

// evalCompare implements SQL's permissive comparison semantics. A missing
// column reads as NULL (tuple lookup), and NULL makes any comparison
// Unknown, as does a variant mismatch.
func evalCompare(c Compare, t ir.Tuple) ir.Truth {
	left := operandValue(c.Left, t)
	right := operandValue(c.Right, t)

	if _, ok := left.(ir.Null); ok {
		return ir.Unknown
	}
	if _, ok := right.(ir.Null); ok {
		return ir.Unknown
	}

	switch c.Op {
	case OpEq, OpNe:
		eq, ok := valueEq(left, right)
		if !ok {
			return ir.Unknown
		}
		if c.Op == OpNe {
			eq = !eq
		}
		return ir.TruthFromBool(eq)
	case OpLt, OpLe, OpGt, OpGe:
		cmp, ok := valueCmp(left, right)
		if !ok {
			return ir.Unknown
		}
		switch c.Op {
		case OpLt:
			return ir.TruthFromBool(cmp < 0)
		case OpLe:
			return ir.TruthFromBool(cmp <= 0)
		case OpGt:
			return ir.TruthFromBool(cmp > 0)
		default:
			return ir.TruthFromBool(cmp >= 0)
		}
	default:
		return ir.Unknown
	}
}

// valueEq compares same-variant non-NULL values for equality. ok is false
// on a variant mismatch.
func valueEq(a, b ir.Value) (eq, ok bool) {
	switch av := a.(type) {
	case ir.Bool:
		bv, k := b.(ir.Bool)
		return av == bv, k
	case ir.Int:
		bv, k := b.(ir.Int)
		return av == bv, k
	case ir.String:
		bv, k := b.(ir.String)
		return av == bv, k
	default:
		return false, false
	}
}

// valueCmp orders same-variant non-NULL values. Booleans do not admit
// ordering; ok is false for them and for variant mismatches.
func valueCmp(a, b ir.Value) (cmp int, ok bool) {
	switch av := a.(type) {
	case ir.Int:
		bv, k := b.(ir.Int)
		if !k {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case ir.String:
		bv, k := b.(ir.String)
		if !k {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// EqualPredicates reports structural identity of two predicates. It never
// re-derives logical equivalence: AndPred(a, b) and AndPred(b, a) are not
// equal here. Func predicates compare by key.
func EqualPredicates(a, b Predicate) bool {
	switch av := a.(type) {
	case TruePred:
		_, ok := b.(TruePred)
		return ok
	case FalsePred:
		_, ok := b.(FalsePred)
		return ok
	case Not:
		bv, ok := b.(Not)
		return ok && EqualPredicates(av.P, bv.P)
	case AndPred:
		bv, ok := b.(AndPred)
		return ok && EqualPredicates(av.L, bv.L) && EqualPredicates(av.R, bv.R)
	case OrPred:
		bv, ok := b.(OrPred)
		return ok && EqualPredicates(av.L, bv.L) && EqualPredicates(av.R, bv.R)
	case Compare:
		bv, ok := b.(Compare)
		return ok && av.Op == bv.Op &&
			equalOperands(av.Left, bv.Left) && equalOperands(av.Right, bv.Right)
	case Func:
		bv, ok := b.(Func)
		return ok && av.Key == bv.Key
	default:
		return false
	}
}

func equalOperands(a, b Operand) bool {
	switch av := a.(type) {
	case Column:
		bv, ok := b.(Column)
		return ok && av.Name == bv.Name
	case Literal:
		bv, ok := b.(Literal)
		return ok && ir.Equal(av.Value, bv.Value)
	default:
		return false
	}
}
