package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgrsql/relcore/internal/plandef"
	"github.com/pgrsql/relcore/internal/planir"
	"github.com/pgrsql/relcore/internal/rewrite"
	"github.com/pgrsql/relcore/internal/sqlgen"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Rewritten bool
	SQL       bool
}

// ExplainResult is the JSON payload for explain output.
type ExplainResult struct {
	Fingerprint string         `json:"fingerprint"`
	Plan        sqlgen.PlanNode `json:"plan"`
	SQL         string         `json:"sql,omitempty"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <plan.cue>",
		Short: "Show the plan tree for a plan definition",
		Long: `Load a CUE plan definition and print its plan tree.

Example:
  relcore explain query.cue
  relcore explain --rewritten --sql query.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Rewritten, "rewritten", false, "explain the plan after rewriting")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "include the SQL rendering")

	return cmd
}

func runExplain(opts *ExplainOptions, path string, cmd *cobra.Command) error {
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

	plan := def.Plan
	if opts.Rewritten {
		res := rewrite.New().Rewrite(plan)
		formatter.VerboseLog("rewrite: %d step(s) over %d pass(es)", len(res.Steps), res.Passes)
		plan = res.Expr
	}

	fp, err := planir.Fingerprint(plan)
	if err != nil {
		return WrapExitError(ExitCommandError, "fingerprint plan", err)
	}

	if formatter.Format == "json" {
		result := ExplainResult{
			Fingerprint: fp,
			Plan:        sqlgen.ExplainTree(plan),
		}
		if opts.SQL {
			result.SQL = sqlgen.RenderSQL(plan)
		}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, sqlgen.Explain(plan))
	if opts.SQL {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, sqlgen.RenderSQL(plan))
	}
	formatter.VerboseLog("fingerprint: %s", fp)
	return nil
}
