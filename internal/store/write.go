package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtlog/courtlog/internal/journal"
)

// CreateMatch registers a new match and appends its match.started event in
// a single transaction. The event's snapshot is the match's initial state
// and doubles as the registry's initial_snapshot, so state can be rebuilt
// even after every event has been undone.
//
// Creating a match that already exists returns ErrConflict.
func (s *Store) CreateMatch(ctx context.Context, started journal.Event) error {
	if started.Kind != journal.KindMatchStarted {
		return fmt.Errorf("create match: event kind %s is not %s", started.Kind, journal.KindMatchStarted)
	}
	if started.Seq != 1 {
		return fmt.Errorf("create match: started event must carry seq 1, got %d", started.Seq)
	}

	snapshot, err := marshalSnapshot(started.Snapshot)
	if err != nil {
		return fmt.Errorf("create match %s: %w", started.MatchID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create match %s: begin tx: %w", started.MatchID, err)
	}
	defer tx.Rollback() // no-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, sport, first_server, initial_snapshot, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO NOTHING
	`,
		started.MatchID,
		string(started.Snapshot.Policy.Sport),
		int(started.Snapshot.Serving),
		snapshot,
		started.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create match %s: insert: %w", started.MatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create match %s: rows affected: %w", started.MatchID, err)
	}
	if affected == 0 {
		return fmt.Errorf("create match %s: %w", started.MatchID, ErrConflict)
	}

	if err := insertEvent(ctx, tx, started, snapshot); err != nil {
		return fmt.Errorf("create match %s: %w", started.MatchID, err)
	}
	if err := writeHead(ctx, tx, started, snapshot); err != nil {
		return fmt.Errorf("create match %s: %w", started.MatchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create match %s: commit: %w", started.MatchID, err)
	}
	return nil
}

// AppendEvent appends one event conditioned on the expected tail: the
// append is accepted only if the log's highest sequence number still
// equals expectedTail, otherwise ErrConflict. The match_heads projection
// is updated in the same transaction - the composite write is atomic.
func (s *Store) AppendEvent(ctx context.Context, ev journal.Event, expectedTail int64) error {
	if ev.Seq != expectedTail+1 {
		return fmt.Errorf("append %s: event seq %d does not follow expected tail %d", ev.MatchID, ev.Seq, expectedTail)
	}

	snapshot, err := marshalSnapshot(ev.Snapshot)
	if err != nil {
		return fmt.Errorf("append %s: %w", ev.MatchID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append %s: begin tx: %w", ev.MatchID, err)
	}
	defer tx.Rollback()

	tail, err := tailSeq(ctx, tx, ev.MatchID)
	if err != nil {
		return fmt.Errorf("append %s: %w", ev.MatchID, err)
	}
	if tail != expectedTail {
		return fmt.Errorf("append %s: tail is %d, expected %d: %w", ev.MatchID, tail, expectedTail, ErrConflict)
	}

	if err := insertEvent(ctx, tx, ev, snapshot); err != nil {
		return fmt.Errorf("append %s: %w", ev.MatchID, err)
	}
	if err := writeHead(ctx, tx, ev, snapshot); err != nil {
		return fmt.Errorf("append %s: %w", ev.MatchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append %s: commit: %w", ev.MatchID, err)
	}
	return nil
}

// DeleteTail removes the most recent event of a match, conditioned on the
// tail's content-addressed identity: if the tail is no longer the event
// the caller read - a concurrent append or undo moved it - the delete is
// rejected with ErrConflict instead of silently removing the wrong event.
// The match_heads projection is rewritten from the new tail (or from the
// match's initial snapshot when the log empties) in the same transaction.
func (s *Store) DeleteTail(ctx context.Context, matchID, expectedID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete tail %s: begin tx: %w", matchID, err)
	}
	defer tx.Rollback()

	var seq int64
	var id string
	err = tx.QueryRowContext(ctx, `
		SELECT seq, id FROM events
		WHERE match_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, matchID).Scan(&seq, &id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("delete tail %s: log is empty: %w", matchID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete tail %s: read tail: %w", matchID, err)
	}
	if id != expectedID {
		return fmt.Errorf("delete tail %s: tail moved: %w", matchID, ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM events WHERE match_id = ? AND seq = ?
	`, matchID, seq); err != nil {
		return fmt.Errorf("delete tail %s: delete: %w", matchID, err)
	}

	if err := rewriteHead(ctx, tx, matchID); err != nil {
		return fmt.Errorf("delete tail %s: %w", matchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete tail %s: commit: %w", matchID, err)
	}
	return nil
}

// tailSeq returns the highest sequence number in a match's log, 0 when the
// log is empty.
func tailSeq(ctx context.Context, tx *sql.Tx, matchID string) (int64, error) {
	var tail int64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM events WHERE match_id = ?
	`, matchID).Scan(&tail)
	if err != nil {
		return 0, fmt.Errorf("read tail: %w", err)
	}
	return tail, nil
}

// insertEvent writes one events row.
func insertEvent(ctx context.Context, tx *sql.Tx, ev journal.Event, snapshot string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO events (match_id, seq, id, kind, side, snapshot, actor, recorded_at, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.MatchID,
		ev.Seq,
		ev.ID,
		string(ev.Kind),
		int(ev.Side),
		snapshot,
		ev.Actor,
		ev.Timestamp.UTC().Format(time.RFC3339Nano),
		ev.Note,
	)
	if err != nil {
		return fmt.Errorf("insert event seq %d: %w", ev.Seq, err)
	}
	return nil
}

// writeHead upserts the current-state projection from a freshly appended
// event.
func writeHead(ctx context.Context, tx *sql.Tx, ev journal.Event, snapshot string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO match_heads (match_id, sport, last_seq, snapshot, complete, winner, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			last_seq = excluded.last_seq,
			snapshot = excluded.snapshot,
			complete = excluded.complete,
			winner = excluded.winner,
			updated_at = excluded.updated_at
	`,
		ev.MatchID,
		string(ev.Snapshot.Policy.Sport),
		ev.Seq,
		snapshot,
		boolToInt(ev.Snapshot.Complete),
		int(ev.Snapshot.Winner),
		ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write head: %w", err)
	}
	return nil
}

// rewriteHead rebuilds the projection after a tail delete: from the new
// tail event if one remains, from the registry's initial snapshot
// otherwise.
func rewriteHead(ctx context.Context, tx *sql.Tx, matchID string) error {
	row := tx.QueryRowContext(ctx, `
		SELECT match_id, seq, id, kind, side, snapshot, actor, recorded_at, note
		FROM events
		WHERE match_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, matchID)

	tail, err := scanEvent(row)
	if err == nil {
		snapshot, merr := marshalSnapshot(tail.Snapshot)
		if merr != nil {
			return fmt.Errorf("rewrite head: %w", merr)
		}
		return writeHead(ctx, tx, tail, snapshot)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("rewrite head: %w", err)
	}

	// Log emptied: fall back to the initial snapshot.
	var sport, initial, createdAt string
	err = tx.QueryRowContext(ctx, `
		SELECT sport, initial_snapshot, created_at FROM matches WHERE match_id = ?
	`, matchID).Scan(&sport, &initial, &createdAt)
	if err != nil {
		return fmt.Errorf("rewrite head: read registry: %w", err)
	}

	state, err := unmarshalSnapshot(initial)
	if err != nil {
		return fmt.Errorf("rewrite head: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_heads (match_id, sport, last_seq, snapshot, complete, winner, updated_at)
		VALUES (?, ?, 0, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			last_seq = excluded.last_seq,
			snapshot = excluded.snapshot,
			complete = excluded.complete,
			winner = excluded.winner,
			updated_at = excluded.updated_at
	`,
		matchID,
		sport,
		initial,
		boolToInt(state.Complete),
		int(state.Winner),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("rewrite head: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
