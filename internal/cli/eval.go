package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgrsql/relcore/internal/catalog"
	"github.com/pgrsql/relcore/internal/engine"
	"github.com/pgrsql/relcore/internal/ir"
	"github.com/pgrsql/relcore/internal/plandef"
	"github.com/pgrsql/relcore/internal/rewrite"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Database  string
	NoRewrite bool
}

// EvalResult is the JSON payload for eval output.
type EvalResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Steps   int      `json:"rewrite_steps"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <plan.cue>",
		Short: "Evaluate a plan definition",
		Long: `Load a CUE plan definition, bind its named relations, rewrite the
plan, and evaluate it. Named relations resolve against the definition's
inline relations first, then against the SQLite catalog when --db is set.

Example:
  relcore eval query.cue
  relcore eval --db ./data.db query.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog")
	cmd.Flags().BoolVar(&opts.NoRewrite, "no-rewrite", false, "evaluate the plan as written")

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	def, err := plandef.LoadFile(path)
	if err != nil {
		_ = formatter.Error("E001", "failed to load plan definition", err.Error())
		return WrapExitError(ExitCommandError, "failed to load plan definition", err)
	}

	src := engine.Source(engine.MapSource(def.Relations))
	if opts.Database != "" {
		cat, err := catalog.Open(opts.Database)
		if err != nil {
			_ = formatter.Error("E002", "failed to open catalog", err.Error())
			return WrapExitError(ExitCommandError, "failed to open catalog", err)
		}
		defer cat.Close()
		src = chainSource{engine.MapSource(def.Relations), cat}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	bound, err := engine.Bind(ctx, def.Plan, src)
	if err != nil {
		_ = formatter.Error("E003", "failed to bind plan", err.Error())
		return WrapExitError(ExitCommandError, "failed to bind plan", err)
	}

	plan := bound
	steps := 0
	if !opts.NoRewrite {
		res := rewrite.New().Rewrite(bound)
		formatter.VerboseLog("rewrite: %d step(s) over %d pass(es)", len(res.Steps), res.Passes)
		plan = res.Expr
		steps = len(res.Steps)
	}

	rel := engine.Eval(plan)

	if formatter.Format == "json" {
		return formatter.Success(evalResult(rel, steps))
	}
	fmt.Fprint(formatter.Writer, renderTable(rel))
	formatter.VerboseLog("%d row(s)", len(rel.Tuples))
	return nil
}

// chainSource resolves names against each source in turn; inline relations
// shadow catalog tables of the same name.
type chainSource []engine.Source

func (c chainSource) Relation(ctx context.Context, name string) (ir.Relation, error) {
	var lastErr error
	for _, src := range c {
		rel, err := src.Relation(ctx, name)
		if err == nil {
			return rel, nil
		}
		lastErr = err
	}
	return ir.Relation{}, lastErr
}

func evalResult(rel ir.Relation, steps int) EvalResult {
	result := EvalResult{Columns: []string(rel.Schema), Steps: steps}
	for _, t := range rel.Tuples {
		row := make([]any, len(t))
		for i, f := range t {
			row[i] = f.Value
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

// renderTable prints a relation the way a SQL shell would: a header, a
// rule, and one display-formatted row per tuple.
func renderTable(rel ir.Relation) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(rel.Schema, " | "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(strings.Join(rel.Schema, " | "))))
	sb.WriteString("\n")
	for _, t := range rel.Tuples {
		cells := make([]string, len(t))
		for i, f := range t {
			cells[i] = ir.Display(f.Value)
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("(%d rows)\n", len(rel.Tuples)))
	return sb.String()
}
