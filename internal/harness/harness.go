// Package harness runs scripted match scenarios against the full scoring
// stack: engines, journal, service, and an in-memory store. Scenarios are
// YAML files asserting rendered scores step by step, and golden traces
// pin the exact event-by-event history a script produces.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/courtlog/courtlog/internal/engine"
	"github.com/courtlog/courtlog/internal/journal"
	"github.com/courtlog/courtlog/internal/match"
	"github.com/courtlog/courtlog/internal/scoring"
	"github.com/courtlog/courtlog/internal/store"
)

// scenarioEpoch is the fixed timestamp scenarios start at. Together with
// the fixed match id it makes every event id in a trace reproducible.
var scenarioEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// TraceEvent is one step's outcome in a scenario trace.
type TraceEvent struct {
	Step     int    `json:"step"`
	Action   string `json:"action"` // "start", "rally", "undo"
	Side     string `json:"side,omitempty"`
	Sets     string `json:"sets"`
	Game     string `json:"game,omitempty"`
	Serving  string `json:"serving,omitempty"`
	Complete bool   `json:"complete"`
	Winner   string `json:"winner,omitempty"`
}

// Result holds the outcome of running a scenario.
type Result struct {
	Passed   bool
	Failures []string
	Trace    []TraceEvent
}

// Run executes a scenario against a fresh in-memory database and returns
// its result. Execution is fully deterministic: fixed match id, fixed
// clock, and a scripted rally sequence.
func Run(scenario *Scenario) (*Result, error) {
	policy, ok := match.PolicyFor(match.Sport(scenario.Sport))
	if !ok {
		return nil, fmt.Errorf("scenario %s: unknown sport %q", scenario.Name, scenario.Sport)
	}
	serving, err := match.ParseSide(scenario.Server)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: open store: %w", scenario.Name, err)
	}
	defer st.Close()

	svc := scoring.NewService(st,
		scoring.WithIDGenerator(scoring.NewFixedIDGenerator(scenario.Name)),
		scoring.WithClock(journal.NewFixedClock(scenarioEpoch, time.Second)),
		scoring.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ctx := context.Background()
	result := &Result{Passed: true}

	state, err := svc.Start(ctx, policy, serving, "harness")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: start: %w", scenario.Name, err)
	}
	result.Trace = append(result.Trace, traceEvent(0, "start", match.SideNone, state))

	for i, step := range scenario.Steps {
		stepNum := i + 1
		var action string
		var side match.Side

		switch {
		case step.Undo:
			action = "undo"
			state, err = svc.Undo(ctx, scenario.Name)
		default:
			action = "rally"
			side, err = match.ParseSide(step.Rally)
			if err == nil {
				state, _, err = svc.Score(ctx, scenario.Name, side, "harness")
			}
		}
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", scenario.Name, stepNum, err)
		}

		result.Trace = append(result.Trace, traceEvent(stepNum, action, side, state))
		if step.Expect != nil {
			checkExpect(result, fmt.Sprintf("step %d", stepNum), step.Expect, state)
		}
	}

	if scenario.Expect != nil {
		checkExpect(result, "final state", scenario.Expect, state)
	}
	return result, nil
}

// checkExpect evaluates one expectation against a state and records any
// mismatches as failures.
func checkExpect(result *Result, where string, expect *Expect, state match.State) {
	eng := engine.ForPolicy(state.Policy)

	fail := func(field, want, got string) {
		result.Passed = false
		result.Failures = append(result.Failures,
			fmt.Sprintf("%s: %s = %q, want %q", where, field, got, want))
	}

	if expect.Sets != "" {
		if got := eng.FormatSets(state); got != expect.Sets {
			fail("sets", expect.Sets, got)
		}
	}
	if expect.Game != "" {
		if got := eng.FormatGame(state); got != expect.Game {
			fail("game", expect.Game, got)
		}
	}
	if expect.Serving != "" {
		if got := state.Serving.String(); got != expect.Serving {
			fail("serving", expect.Serving, got)
		}
	}
	if expect.Complete != nil && state.Complete != *expect.Complete {
		fail("complete", fmt.Sprint(*expect.Complete), fmt.Sprint(state.Complete))
	}
	if expect.Winner != "" {
		if got := state.Winner.String(); got != expect.Winner {
			fail("winner", expect.Winner, got)
		}
	}
}

// traceEvent renders a state into a trace entry.
func traceEvent(step int, action string, side match.Side, state match.State) TraceEvent {
	eng := engine.ForPolicy(state.Policy)
	ev := TraceEvent{
		Step:     step,
		Action:   action,
		Sets:     eng.FormatSets(state),
		Game:     eng.FormatGame(state),
		Complete: state.Complete,
	}
	if side.Valid() {
		ev.Side = side.String()
	}
	if state.Complete {
		ev.Winner = state.Winner.String()
	} else {
		ev.Serving = state.Serving.String()
	}
	return ev
}
