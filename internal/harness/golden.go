package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/pgrsql/relcore/internal/ir"
)

// Snapshot captures a scenario run for golden comparison: the rewrite
// trace and the final relation, canonically serialized. The session ID is
// deliberately excluded - it is fresh per run.
type Snapshot struct {
	ScenarioName string
	Steps        []map[string]any
	Passes       int
	FixedPoint   bool
	Result       ir.Relation
}

func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = step
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"steps":         steps,
		"passes":        int64(s.Passes),
		"fixed_point":   s.FixedPoint,
		"result":        s.Result,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	steps := make([]map[string]any, len(result.Rewrite.Steps))
	for i, step := range result.Rewrite.Steps {
		steps[i] = map[string]any{
			"rule":   step.Rule,
			"before": step.Before,
			"after":  step.After,
		}
	}
	snapshot := Snapshot{
		ScenarioName: scenario.Name,
		Steps:        steps,
		Passes:       result.Rewrite.Passes,
		FixedPoint:   result.Rewrite.FixedPoint,
		Result:       result.After,
	}

	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
