// Package engine implements the sport scoring engines.
//
// Engines are pure transition functions: Advance takes a match state and a
// scoring side and returns the next state without mutating the input. They
// hold no shared state and may be called from any number of goroutines
// without synchronization; concurrency control belongs at the event-log
// boundary, not here.
//
// Two engine families exist. The advantage engine scores games with the
// 0/15/30/40/AD label sequence (tennis, padel); the rally engine scores
// numeric rallies with rally or side-out serving rules (badminton,
// pickleball). The game-state union is dispatched exhaustively inside the
// engines - call sites never type-test game variants.
package engine

import (
	"github.com/courtlog/courtlog/internal/match"
)

// Engine computes match state transitions for one sport family.
type Engine interface {
	// InitialState constructs the state of a match before any rally.
	InitialState(matchID string, policy match.Policy, serving match.Side) match.State

	// Advance returns the state after the given side wins a rally.
	// Advancing a completed match returns the state unchanged (idempotent
	// no-op); an invalid side is an error, never coerced.
	Advance(state match.State, side match.Side) (match.State, error)

	// FormatSets renders the per-set score line (e.g. "6-4 7-6(4) 2-1").
	FormatSets(state match.State) string

	// FormatGame renders the active game score (point labels, rally
	// tallies, or the tiebreak tally while one is in progress).
	FormatGame(state match.State) string
}

// engines is the fixed sport-to-engine mapping, built once at process
// start. Read-only configuration, never mutated after initialization.
var engines = map[match.Sport]Engine{
	match.SportTennis:     Advantage{},
	match.SportPadel:      Advantage{},
	match.SportPickleball: Rally{},
	match.SportBadminton:  Rally{},
}

// ForSport returns the engine registered for a sport. Sports without a
// specialized engine fall back to the advantage engine; that fallback is a
// placeholder and is not guaranteed rule-accurate for unmodeled sports.
func ForSport(sport match.Sport) Engine {
	if e, ok := engines[sport]; ok {
		return e
	}
	return Advantage{}
}

// ForPolicy selects an engine for a policy. Known sports use the fixed
// registry; custom policies loaded from rule files route by engine family
// so a rally-scored variant never lands on the advantage placeholder.
func ForPolicy(p match.Policy) Engine {
	if e, ok := engines[p.Sport]; ok {
		return e
	}
	if p.Family() == match.FamilyRally {
		return Rally{}
	}
	return Advantage{}
}
