// Package journal defines the append-only score-event log and the pure
// coordination logic over it: deriving current state, building the events
// a scoring action must append, and computing undo.
//
// The log stores full state snapshots, not deltas. Replay therefore needs
// no computation - the current state of a match is the snapshot of its
// last event - and a past event's snapshot can never drift, because state
// values are immutable. Preserve this design; deltas would reintroduce a
// replay algorithm and the consistency risk snapshots avoid.
//
// Nothing here touches storage. Persistence, including the conditioned
// append and tail-delete this package's outputs feed, lives in
// internal/store.
package journal

import (
	"fmt"
	"time"

	"github.com/courtlog/courtlog/internal/engine"
	"github.com/courtlog/courtlog/internal/match"
)

// CurrentState derives the state of a match from its ordered event
// history: the snapshot of the last event, or the given initial state when
// the log is empty.
func CurrentState(initial match.State, events []Event) match.State {
	if len(events) == 0 {
		return initial
	}
	return events[len(events)-1].Snapshot
}

// Start builds the match.started event opening a fresh log. The snapshot
// is the engine's initial state, so a one-event log already derives
// correctly.
func Start(initial match.State, actor string, ts time.Time) (Event, error) {
	ev, err := newEvent(KindMatchStarted, 1, match.SideNone, initial, actor, "", ts)
	if err != nil {
		return Event{}, fmt.Errorf("start %s: %w", initial.MatchID, err)
	}
	return ev, nil
}

// ScorePoint computes the next match state for a rally won by side and the
// event recording it. A nil event with no error means the match is already
// complete: the state is returned unchanged and there is nothing to append
// (idempotent no-op, per contract not an error).
func ScorePoint(eng engine.Engine, initial match.State, events []Event, side match.Side, actor string, ts time.Time) (match.State, *Event, error) {
	current := CurrentState(initial, events)
	if current.Complete {
		return current, nil, nil
	}

	next, err := eng.Advance(current, side)
	if err != nil {
		return match.State{}, nil, fmt.Errorf("score %s: %w", current.MatchID, err)
	}

	ev, err := newEvent(KindPointScored, nextSeq(events), side, next, actor, "", ts)
	if err != nil {
		return match.State{}, nil, fmt.Errorf("score %s: %w", current.MatchID, err)
	}
	return next, &ev, nil
}

// Correct builds a correction event that overrides match state without
// replaying through an engine. The note documents why; corrections without
// one are rejected.
func Correct(events []Event, snapshot match.State, actor, note string, ts time.Time) (Event, error) {
	if note == "" {
		return Event{}, fmt.Errorf("correct %s: a correction requires a note", snapshot.MatchID)
	}
	ev, err := newEvent(KindScoreCorrected, nextSeq(events), match.SideNone, snapshot, actor, note, ts)
	if err != nil {
		return Event{}, fmt.Errorf("correct %s: %w", snapshot.MatchID, err)
	}
	return ev, nil
}

// UndoLast computes the state restored by removing the most recent event:
// the snapshot of the event before it, or the initial state when the log
// would empty. The returned event is the exact tail the caller must delete
// - conditioned on its identity - to make the restoration real. A nil
// event means the history was empty and undo is a no-op.
//
// Undo only ever targets the tail; arbitrary past events are never
// removable.
func UndoLast(initial match.State, events []Event) (match.State, *Event) {
	if len(events) == 0 {
		return initial, nil
	}
	tail := events[len(events)-1]
	return CurrentState(initial, events[:len(events)-1]), &tail
}

// nextSeq returns the sequence number the next appended event must carry.
func nextSeq(events []Event) int64 {
	if len(events) == 0 {
		return 1
	}
	return events[len(events)-1].Seq + 1
}
