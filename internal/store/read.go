package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtlog/courtlog/internal/journal"
	"github.com/courtlog/courtlog/internal/match"
)

// ReadEvents returns a match's full event history ordered by sequence
// number. Returns an empty slice (not nil) when the log is empty.
func (s *Store) ReadEvents(ctx context.Context, matchID string) ([]journal.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT match_id, seq, id, kind, side, snapshot, actor, recorded_at, note
		FROM events
		WHERE match_id = ?
		ORDER BY seq ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []journal.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadTail returns the most recent event of a match.
// Returns sql.ErrNoRows when the log is empty.
func (s *Store) ReadTail(ctx context.Context, matchID string) (journal.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT match_id, seq, id, kind, side, snapshot, actor, recorded_at, note
		FROM events
		WHERE match_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, matchID)
	return scanEvent(row)
}

// InitialState reads a match's registered initial state.
// Returns ErrNotFound for unknown matches.
func (s *Store) InitialState(ctx context.Context, matchID string) (match.State, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx, `
		SELECT initial_snapshot FROM matches WHERE match_id = ?
	`, matchID).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return match.State{}, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return match.State{}, fmt.Errorf("read match %s: %w", matchID, err)
	}
	return unmarshalSnapshot(snapshot)
}

// Head is one row of the current-state projection.
type Head struct {
	MatchID   string
	Sport     match.Sport
	LastSeq   int64
	State     match.State
	Complete  bool
	Winner    match.Side
	UpdatedAt time.Time
}

// ReadHead returns the denormalized current-state projection for a match.
// Returns ErrNotFound for unknown matches.
func (s *Store) ReadHead(ctx context.Context, matchID string) (Head, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT match_id, sport, last_seq, snapshot, complete, winner, updated_at
		FROM match_heads
		WHERE match_id = ?
	`, matchID)
	head, err := scanHead(row)
	if err == sql.ErrNoRows {
		return Head{}, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return head, err
}

// ListHeads returns the projection rows for every known match, most
// recently updated first.
func (s *Store) ListHeads(ctx context.Context) ([]Head, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT match_id, sport, last_seq, snapshot, complete, winner, updated_at
		FROM match_heads
		ORDER BY updated_at DESC, match_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query heads: %w", err)
	}
	defer rows.Close()

	heads := []Head{}
	for rows.Next() {
		head, err := scanHead(rows)
		if err != nil {
			return nil, err
		}
		heads = append(heads, head)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate heads: %w", err)
	}
	return heads, nil
}

// scanHead scans one match_heads row.
func scanHead(row rowScanner) (Head, error) {
	var head Head
	var sport, snapshot, updatedAt string
	var complete, winner int

	if err := row.Scan(&head.MatchID, &sport, &head.LastSeq, &snapshot, &complete, &winner, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Head{}, err
		}
		return Head{}, fmt.Errorf("scan head: %w", err)
	}

	head.Sport = match.Sport(sport)
	head.Complete = complete != 0
	head.Winner = match.Side(winner)

	state, err := unmarshalSnapshot(snapshot)
	if err != nil {
		return Head{}, fmt.Errorf("head %s: %w", head.MatchID, err)
	}
	head.State = state

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Head{}, fmt.Errorf("head %s: parse updated_at: %w", head.MatchID, err)
	}
	head.UpdatedAt = ts

	return head, nil
}
