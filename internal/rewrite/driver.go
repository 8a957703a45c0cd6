package rewrite

import (
	"github.com/google/uuid"

	"github.com/pgrsql/relcore/internal/planir"
)

// Default budgets. MaxPasses bounds whole-tree passes; maxNodeFirings
// bounds successive rule applications at a single node. Both exist to cut
// off pathological rule cycles (e.g. two filters commuting forever) -
// well-formed inputs reach a fixed point long before either bound.
const (
	DefaultMaxPasses = 32
	maxNodeFirings   = 16
)

// Step records one rule application for the trace.
type Step struct {
	Rule   string `json:"rule"`
	Before string `json:"before"` // Fingerprint of the replaced node
	After  string `json:"after"`  // Fingerprint of the replacement
}

// Result is the outcome of a rewrite session.
type Result struct {
	// SessionID correlates before/after logging in the host application.
	SessionID string

	// Expr is the rewritten plan. The input tree is never modified; when
	// no rule fired, Expr is the input.
	Expr planir.RelExpr

	// Steps lists every rule application, in order.
	Steps []Step

	// Passes is the number of whole-tree passes performed, including the
	// final pass that observed no change.
	Passes int

	// FixedPoint is false only when MaxPasses was exhausted before the
	// tree stopped changing.
	FixedPoint bool
}

// Rewriter drives the rule catalog over plans.
type Rewriter struct {
	rules     []Rule
	maxPasses int
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMaxPasses overrides the pass budget.
func WithMaxPasses(n int) Option {
	return func(r *Rewriter) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithRules replaces the catalog. Intended for tests that isolate a
// single rule; production callers use the published catalog.
func WithRules(rules []Rule) Option {
	return func(r *Rewriter) {
		r.rules = rules
	}
}

// New returns a Rewriter over the published catalog.
func New(opts ...Option) *Rewriter {
	r := &Rewriter{
		rules:     Catalog(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite normalizes a plan: bottom-up passes applying the catalog at
// every node, repeated until a pass changes nothing or the pass budget is
// exhausted. The result always evaluates identically to the input for any
// underlying data - that is the catalog's certified guarantee.
//
// Rewriting cannot fail: rules either fire or do not, and a plan that no
// rule matches comes back unchanged.
func (r *Rewriter) Rewrite(e planir.RelExpr) Result {
	res := Result{
		SessionID:  uuid.NewString(),
		FixedPoint: false,
	}

	current := e
	for pass := 0; pass < r.maxPasses; pass++ {
		next, changed := r.rewriteNode(current, &res)
		res.Passes++
		current = next
		if !changed {
			res.FixedPoint = true
			break
		}
	}

	res.Expr = current
	return res
}

// rewriteNode rebuilds the node with rewritten children, then applies
// rules at the node itself until none fires (or the per-node budget runs
// out). Rebuilding always constructs fresh composite nodes, so the caller
// keeps its original tree.
func (r *Rewriter) rewriteNode(e planir.RelExpr, res *Result) (planir.RelExpr, bool) {
	node, changed := r.rewriteChildren(e, res)

	for fired := 0; fired < maxNodeFirings; fired++ {
		replacement, ok := r.applyFirst(node, res)
		if !ok {
			break
		}
		node = replacement
		changed = true
	}
	return node, changed
}

// applyFirst attempts the catalog in listed order and applies the first
// rule that fires. The catalog order is the tie-break policy: no cost
// model exists to prefer one applicable rule over another.
func (r *Rewriter) applyFirst(node planir.RelExpr, res *Result) (planir.RelExpr, bool) {
	for _, rule := range r.rules {
		replacement, fired := rule.Apply(node)
		if !fired {
			continue
		}
		res.Steps = append(res.Steps, Step{
			Rule:   rule.Name(),
			Before: planir.MustFingerprint(node),
			After:  planir.MustFingerprint(replacement),
		})
		return replacement, true
	}
	return node, false
}

func (r *Rewriter) rewriteChildren(e planir.RelExpr, res *Result) (planir.RelExpr, bool) {
	switch expr := e.(type) {
	case planir.Base:
		return expr, false
	case planir.Select:
		in, changed := r.rewriteNode(expr.Input, res)
		return planir.Select{Pred: expr.Pred, Input: in}, changed
	case planir.Project:
		in, changed := r.rewriteNode(expr.Input, res)
		return planir.Project{Columns: expr.Columns, Input: in}, changed
	case planir.Cross:
		l, lc := r.rewriteNode(expr.Left, res)
		rt, rc := r.rewriteNode(expr.Right, res)
		return planir.Cross{Left: l, Right: rt}, lc || rc
	case planir.Join:
		l, lc := r.rewriteNode(expr.Left, res)
		rt, rc := r.rewriteNode(expr.Right, res)
		return planir.Join{Pred: expr.Pred, Left: l, Right: rt}, lc || rc
	case planir.Rename:
		in, changed := r.rewriteNode(expr.Input, res)
		return planir.Rename{Old: expr.Old, New: expr.New, Input: in}, changed
	case planir.Union:
		l, lc := r.rewriteNode(expr.Left, res)
		rt, rc := r.rewriteNode(expr.Right, res)
		return planir.Union{Left: l, Right: rt}, lc || rc
	case planir.Intersect:
		l, lc := r.rewriteNode(expr.Left, res)
		rt, rc := r.rewriteNode(expr.Right, res)
		return planir.Intersect{Left: l, Right: rt}, lc || rc
	case planir.Difference:
		l, lc := r.rewriteNode(expr.Left, res)
		rt, rc := r.rewriteNode(expr.Right, res)
		return planir.Difference{Left: l, Right: rt}, lc || rc
	default:
		return e, false
	}
}
