package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/courtlog/courtlog/internal/journal"
)

// TraceSnapshot is the golden-file form of a scenario trace.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts the snapshot for canonical JSON serialization.
// Optional fields are dropped when empty so traces stay diff-friendly.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"step":     ev.Step,
			"action":   ev.Action,
			"sets":     ev.Sets,
			"complete": ev.Complete,
		}
		if ev.Side != "" {
			m["side"] = ev.Side
		}
		if ev.Game != "" {
			m["game"] = ev.Game
		}
		if ev.Serving != "" {
			m["serving"] = ev.Serving
		}
		if ev.Winner != "" {
			m["winner"] = ev.Winner
		}
		trace[i] = m
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
	}
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		t.Errorf("scenario %s: %s", scenario.Name, failure)
	}

	snapshot := TraceSnapshot{ScenarioName: scenario.Name, Trace: result.Trace}
	traceJSON, err := journal.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
	return nil
}
