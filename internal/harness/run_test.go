package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/filter-merge.yaml")
	require.NoError(t, err)
	assert.Equal(t, "filter-merge", s.Name)
	assert.Equal(t, filepath.Join("testdata", "plans", "filter_merge.cue"), filepath.Clean(s.Plan))
	require.NotNil(t, s.Expect)
	assert.Equal(t, []string{"name", "dept", "salary"}, s.Expect.Columns)
	require.NotNil(t, s.Rewrite)
	assert.Equal(t, []string{"filter_merge"}, s.Rewrite.Rules)
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: d
plan: missing.cue
expectation:
  columns: [a]
`)
	_, err := LoadScenario(path)
	require.Error(t, err, "unknown top-level field must fail loudly")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "description: d\nplan: x.cue\n"},
		{"missing description", "name: n\nplan: x.cue\n"},
		{"missing plan", "name: n\ndescription: d\n"},
		{"plan not found", "name: n\ndescription: d\nplan: nope.cue\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRunFilterMergeScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/filter-merge.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Len(t, result.Rewrite.Steps, 1)
	assert.Equal(t, "filter_merge", result.Rewrite.Steps[0].Rule)
	assert.True(t, result.Rewrite.FixedPoint)
	assert.Len(t, result.After.Tuples, 2)
}

func TestRunContradictionScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/contradiction.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.After.Tuples)
	assert.Equal(t, []string{"contradiction_filter"}, ruleNames(result))
}

func ruleNames(r *Result) []string {
	names := make([]string, len(r.Rewrite.Steps))
	for i, s := range r.Rewrite.Steps {
		names[i] = s.Rule
	}
	return names
}

func TestRunExpectMismatch(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/filter-merge.yaml")
	require.NoError(t, err)
	s.Expect.Rows = s.Expect.Rows[:1]

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result mismatch")
}

func TestRunRuleMismatch(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/filter-merge.yaml")
	require.NoError(t, err)
	s.Rewrite.Rules = []string{"identity_filter"}

	_, err = Run(s)
	require.Error(t, err)
}

func TestRunUnorderedExpect(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/filter-merge.yaml")
	require.NoError(t, err)

	// Reversed rows fail the ordered comparison and pass the multiset one.
	s.Expect.Rows = [][]any{
		{"Bob", "eng", 90},
		{"Alice", "eng", 100},
	}
	_, err = Run(s)
	require.Error(t, err)

	s.Expect.Unordered = true
	_, err = Run(s)
	require.NoError(t, err)
}

func TestRunWithGoldenSnapshot(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/no-rewrite.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}
