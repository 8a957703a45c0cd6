package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pgrsql/relcore/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
}

// ScenarioOutcome reports one scenario's result.
type ScenarioOutcome struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
	Steps  int    `json:"rewrite_steps"`
}

// TestReport is the JSON payload for test output.
type TestReport struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Outcomes []ScenarioOutcome `json:"outcomes"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario.yaml | scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run one scenario file, or every *.yaml scenario in a directory.

Each scenario loads a plan definition, rewrites it, evaluates both the
original and rewritten plans, and checks the scenario's expectations.

Example:
  relcore test scenarios/
  relcore test scenarios/filter-merge.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	return cmd
}

func runTest(opts *TestOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths, err := scenarioPaths(path)
	if err != nil {
		_ = formatter.Error("E001", "failed to locate scenarios", err.Error())
		return WrapExitError(ExitCommandError, "failed to locate scenarios", err)
	}

	report := TestReport{Total: len(paths)}
	for _, p := range paths {
		outcome := runScenarioFile(p, formatter)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "\n%d scenario(s): %d passed, %d failed\n",
			report.Total, report.Passed, report.Failed)
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}
	return nil
}

func runScenarioFile(path string, formatter *OutputFormatter) ScenarioOutcome {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		outcome := ScenarioOutcome{Name: filepath.Base(path), Error: err.Error()}
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "✗ %s: %v\n", outcome.Name, err)
		}
		return outcome
	}

	result, err := harness.Run(scenario)
	outcome := ScenarioOutcome{Name: scenario.Name, Passed: err == nil}
	if result != nil {
		outcome.Steps = len(result.Rewrite.Steps)
	}
	if err != nil {
		outcome.Error = err.Error()
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "✗ %s: %v\n", scenario.Name, err)
		}
		return outcome
	}

	if formatter.Format != "json" {
		fmt.Fprintf(formatter.Writer, "✓ %s (%d rewrite step(s))\n", scenario.Name, outcome.Steps)
	}
	formatter.VerboseLog("  %s", scenario.Description)
	return outcome
}

// scenarioPaths expands a path into the scenario files it names: the file
// itself, or every *.yaml/*.yml directly in the directory, sorted.
func scenarioPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(path, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", path)
	}
	sort.Strings(paths)
	return paths, nil
}
