package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgrsql/relcore/internal/plandef"
	"github.com/pgrsql/relcore/internal/planir"
	"github.com/pgrsql/relcore/internal/rewrite"
	"github.com/pgrsql/relcore/internal/sqlgen"
)

// RewriteOptions holds flags for the rewrite command.
type RewriteOptions struct {
	*RootOptions
	MaxPasses int
	SQL       bool
}

// RewriteReport is the JSON payload for rewrite output.
type RewriteReport struct {
	SessionID  string         `json:"session_id"`
	Before     string         `json:"before"`
	After      string         `json:"after"`
	Steps      []rewrite.Step `json:"steps"`
	Passes     int            `json:"passes"`
	FixedPoint bool           `json:"fixed_point"`
	SQL        string         `json:"sql,omitempty"`
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite <plan.cue>",
		Short: "Rewrite a plan and show the rule trace",
		Long: `Load a CUE plan definition, normalize it with the rule catalog, and
print every rule firing with before/after plan fingerprints.

Example:
  relcore rewrite query.cue
  relcore rewrite --sql --max-passes 8 query.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxPasses, "max-passes", 0, "override the pass budget (0 = default)")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "include the rewritten plan's SQL rendering")

	return cmd
}

func runRewrite(opts *RewriteOptions, path string, cmd *cobra.Command) error {
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

	var rwOpts []rewrite.Option
	if opts.MaxPasses > 0 {
		rwOpts = append(rwOpts, rewrite.WithMaxPasses(opts.MaxPasses))
	}
	res := rewrite.New(rwOpts...).Rewrite(def.Plan)

	report := RewriteReport{
		SessionID:  res.SessionID,
		Before:     planir.MustFingerprint(def.Plan),
		After:      planir.MustFingerprint(res.Expr),
		Steps:      res.Steps,
		Passes:     res.Passes,
		FixedPoint: res.FixedPoint,
	}
	if opts.SQL {
		report.SQL = sqlgen.RenderSQL(res.Expr)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "session %s: %d step(s), %d pass(es)\n",
		report.SessionID, len(report.Steps), report.Passes)
	for i, step := range report.Steps {
		fmt.Fprintf(formatter.Writer, "  %2d. %-22s %.12s -> %.12s\n",
			i+1, step.Rule, step.Before, step.After)
	}
	if !report.FixedPoint {
		fmt.Fprintln(formatter.Writer, "warning: pass budget exhausted before fixed point")
	}
	if opts.SQL {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, report.SQL)
	}
	return nil
}
