package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/courtlog/courtlog/internal/match"
)

// Kind identifies what a score event records.
type Kind string

const (
	// KindMatchStarted records the creation of a match.
	KindMatchStarted Kind = "match.started"
	// KindPointScored records one rally won by a side.
	KindPointScored Kind = "point.scored"
	// KindScoreCorrected records an authorized override of match state.
	// Corrections carry a snapshot and a note; they never pass through
	// the scoring engines.
	KindScoreCorrected Kind = "score.corrected"
	// KindPointUndone tags undo actions in exported audit trails. Undo
	// removes the tail event, so this kind is never stored in the log.
	KindPointUndone Kind = "point.undone"
)

// domainEvent is the content-address domain prefix for event identity.
// The version suffix leaves room for algorithm migration.
const domainEvent = "courtlog/event/v1"

// Event is one record of the append-only score log.
//
// Events for one match form a strictly ordered, gap-free sequence; only
// the tail may ever be removed (by undo). Each event carries the complete
// match state after applying it, so the current state of a match is by
// definition the snapshot of its last event.
type Event struct {
	// MatchID is the match this event belongs to.
	MatchID string `json:"match_id"`
	// Seq is the 1-based, contiguous position within the match log.
	Seq int64 `json:"seq"`
	// ID is the content-addressed identity (SHA-256 over canonical JSON,
	// domain separated). Conditioned tail deletes compare against it.
	ID string `json:"id"`
	// Kind identifies what happened.
	Kind Kind `json:"kind"`
	// Side is the scoring side, SideNone for non-point events.
	Side match.Side `json:"side,omitempty"`
	// Snapshot is the full match state after applying the event.
	Snapshot match.State `json:"snapshot"`
	// Actor is who recorded the event, empty when unknown.
	Actor string `json:"actor,omitempty"`
	// Timestamp is when the event was recorded.
	Timestamp time.Time `json:"timestamp"`
	// Note is optional free text (required context for corrections).
	Note string `json:"note,omitempty"`
}

// EventID computes the content-addressed identity of an event. The ID
// field itself is excluded; everything else, snapshot included,
// participates, so two events with equal IDs carry identical facts.
func EventID(ev Event) (string, error) {
	obj := map[string]any{
		"match_id":  ev.MatchID,
		"seq":       ev.Seq,
		"kind":      string(ev.Kind),
		"side":      int(ev.Side),
		"snapshot":  ev.Snapshot,
		"actor":     ev.Actor,
		"timestamp": ev.Timestamp.UTC().Format(time.RFC3339Nano),
		"note":      ev.Note,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("event id: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(domainEvent))
	h.Write([]byte{0x00}) // domain/data boundary
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// newEvent assembles an event and stamps its content-addressed ID.
func newEvent(kind Kind, seq int64, side match.Side, snapshot match.State, actor, note string, ts time.Time) (Event, error) {
	ev := Event{
		MatchID:   snapshot.MatchID,
		Seq:       seq,
		Kind:      kind,
		Side:      side,
		Snapshot:  snapshot,
		Actor:     actor,
		Timestamp: ts.UTC(),
		Note:      note,
	}
	id, err := EventID(ev)
	if err != nil {
		return Event{}, err
	}
	ev.ID = id
	return ev, nil
}

// Validate checks that a match's event history is well formed: one match,
// 1-based contiguous sequence numbers, IDs matching event content.
func Validate(events []Event) error {
	for i, ev := range events {
		if ev.Seq != int64(i)+1 {
			return fmt.Errorf("event %d: seq %d breaks contiguity", i, ev.Seq)
		}
		if i > 0 && ev.MatchID != events[0].MatchID {
			return fmt.Errorf("event %d: match %s mixed into log of %s", i, ev.MatchID, events[0].MatchID)
		}
		want, err := EventID(ev)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if ev.ID != want {
			return fmt.Errorf("event %d: id %s does not match content (want %s)", i, ev.ID, want)
		}
	}
	return nil
}
