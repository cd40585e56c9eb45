package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtlog/courtlog/internal/journal"
	"github.com/courtlog/courtlog/internal/match"
)

// marshalSnapshot converts a match state to canonical JSON TEXT for
// storage. Canonical serialization keeps stored snapshots byte-identical
// to the form that fed the event's content-addressed ID.
func marshalSnapshot(state match.State) (string, error) {
	data, err := journal.MarshalCanonical(state)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

// unmarshalSnapshot parses stored snapshot TEXT back into a match state.
func unmarshalSnapshot(data string) (match.State, error) {
	var state match.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return match.State{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return state, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent scans one events row.
func scanEvent(row rowScanner) (journal.Event, error) {
	var ev journal.Event
	var kind string
	var side int
	var snapshot, recordedAt string

	if err := row.Scan(&ev.MatchID, &ev.Seq, &ev.ID, &kind, &side, &snapshot, &ev.Actor, &recordedAt, &ev.Note); err != nil {
		if err == sql.ErrNoRows {
			return journal.Event{}, err
		}
		return journal.Event{}, fmt.Errorf("scan event: %w", err)
	}

	ev.Kind = journal.Kind(kind)
	ev.Side = match.Side(side)

	state, err := unmarshalSnapshot(snapshot)
	if err != nil {
		return journal.Event{}, fmt.Errorf("event %s seq %d: %w", ev.MatchID, ev.Seq, err)
	}
	ev.Snapshot = state

	ts, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return journal.Event{}, fmt.Errorf("event %s seq %d: parse recorded_at: %w", ev.MatchID, ev.Seq, err)
	}
	ev.Timestamp = ts

	return ev, nil
}
