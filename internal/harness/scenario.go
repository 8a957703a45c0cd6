// Package harness runs declarative plan scenarios: a CUE plan definition,
// an expected result, and optional assertions about the rewrite. Scenarios
// are the conformance surface - each one pins evaluation output and rule
// firings for a concrete plan.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden
	// file when the scenario is snapshot-tested.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Plan is the path to the CUE plan definition, relative to the
	// scenario file location.
	Plan string `yaml:"plan"`

	// Expect pins the evaluation result. If nil, only the rewrite
	// assertions run.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Rewrite holds assertions about the rewrite of the plan. If nil,
	// the plan is still rewritten (equivalence is always checked) but
	// no rule-level assertions run.
	Rewrite *RewriteClause `yaml:"rewrite,omitempty"`
}

// ExpectClause pins the rows evaluation must produce.
type ExpectClause struct {
	// Columns is the expected output schema, in order.
	Columns []string `yaml:"columns"`

	// Rows are the expected tuples. Cell values follow YAML scalars;
	// null cells become NULL.
	Rows [][]any `yaml:"rows"`

	// Unordered compares rows as a multiset instead of a sequence.
	Unordered bool `yaml:"unordered,omitempty"`
}

// RewriteClause holds assertions about rewrite behavior.
type RewriteClause struct {
	// Rules is the expected sequence of rule firings, by rule name.
	// If empty, firings are not pinned.
	Rules []string `yaml:"rules,omitempty"`

	// FixedPoint, when set, asserts whether a fixed point was reached
	// within the pass budget.
	FixedPoint *bool `yaml:"fixed_point,omitempty"`

	// MaxPasses overrides the rewriter's pass budget for this scenario.
	MaxPasses int `yaml:"max_passes,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file, resolving the plan
// path relative to the scenario file. Unknown fields are rejected so that
// typos fail loudly instead of silently skipping assertions.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if scenario.Plan != "" && !filepath.IsAbs(scenario.Plan) {
		scenario.Plan = filepath.Join(filepath.Dir(path), scenario.Plan)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Plan == "" {
		return fmt.Errorf("plan is required")
	}
	if _, err := os.Stat(s.Plan); os.IsNotExist(err) {
		return fmt.Errorf("plan file not found: %s", s.Plan)
	}
	if s.Expect != nil && len(s.Expect.Columns) == 0 {
		return fmt.Errorf("expect.columns is required when expect is present")
	}
	if s.Rewrite != nil && s.Rewrite.MaxPasses < 0 {
		return fmt.Errorf("rewrite.max_passes must be non-negative")
	}
	return nil
}
