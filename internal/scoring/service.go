// Package scoring provides the application-level service that records
// matches. It composes the pure engines, the journal derivation rules,
// and durable storage: every write derives the authoritative state from
// the event log, advances it through the engine, and appends the result
// conditioned on the log tail it observed. Concurrent writers race on
// the condition and the loser receives store.ErrConflict, which is safe
// to retry after re-reading.
package scoring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/courtlog/courtlog/internal/engine"
	"github.com/courtlog/courtlog/internal/journal"
	"github.com/courtlog/courtlog/internal/match"
	"github.com/courtlog/courtlog/internal/store"
)

// Storage is the durable log the service writes through. *store.Store
// satisfies it; tests substitute an in-memory double.
type Storage interface {
	CreateMatch(ctx context.Context, started journal.Event) error
	AppendEvent(ctx context.Context, ev journal.Event, expectedTailSeq int64) error
	DeleteTail(ctx context.Context, matchID, expectedID string) error
	ReadEvents(ctx context.Context, matchID string) ([]journal.Event, error)
	InitialState(ctx context.Context, matchID string) (match.State, error)
	ListHeads(ctx context.Context) ([]store.Head, error)
}

// Service records and replays matches on top of a Storage backend.
type Service struct {
	storage Storage
	clock   journal.Clock
	ids     IDGenerator
	log     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, used by tests for deterministic
// event timestamps.
func WithClock(c journal.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDGenerator overrides match id generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

// WithLogger overrides the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service with production defaults: wall-clock
// timestamps, UUIDv7 match ids, and the default slog logger.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		clock:   journal.WallClock{},
		ids:     UUIDv7Generator{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a new match under the given policy with the given first
// server and persists its match.started event. Returns the initial state.
func (s *Service) Start(ctx context.Context, policy match.Policy, serving match.Side, actor string) (match.State, error) {
	if err := policy.Validate(); err != nil {
		return match.State{}, fmt.Errorf("start match: %w", err)
	}
	if !serving.Valid() {
		return match.State{}, fmt.Errorf("start match: %w", engine.ErrInvalidSide)
	}

	id := s.ids.NewID()
	eng := engine.ForPolicy(policy)
	initial := eng.InitialState(id, policy, serving)

	started, err := journal.Start(initial, actor, s.clock.Now())
	if err != nil {
		return match.State{}, fmt.Errorf("start match: %w", err)
	}
	if err := s.storage.CreateMatch(ctx, started); err != nil {
		return match.State{}, fmt.Errorf("start match %s: %w", id, err)
	}

	s.log.InfoContext(ctx, "match started",
		"match_id", id,
		"sport", string(policy.Sport),
		"serving", serving.String())
	return initial, nil
}

// Score awards a rally to side and appends the resulting point.scored
// event, conditioned on the log tail read at derivation time. Returns
// the new state and the appended event. If the match is already
// complete the call is a no-op: the final state is returned with a nil
// event and nothing is written.
func (s *Service) Score(ctx context.Context, matchID string, side match.Side, actor string) (match.State, *journal.Event, error) {
	initial, events, err := s.load(ctx, matchID)
	if err != nil {
		return match.State{}, nil, fmt.Errorf("score point: %w", err)
	}

	eng := engine.ForPolicy(initial.Policy)
	state, ev, err := journal.ScorePoint(eng, initial, events, side, actor, s.clock.Now())
	if err != nil {
		return match.State{}, nil, fmt.Errorf("score point in match %s: %w", matchID, err)
	}
	if ev == nil {
		return state, nil, nil
	}

	if err := s.storage.AppendEvent(ctx, *ev, ev.Seq-1); err != nil {
		return match.State{}, nil, fmt.Errorf("score point in match %s: %w", matchID, err)
	}

	s.log.InfoContext(ctx, "point scored",
		"match_id", matchID,
		"seq", ev.Seq,
		"side", side.String(),
		"complete", state.Complete)
	return state, ev, nil
}

// Undo removes the most recent event from the log, conditioned on its
// content-addressed id, and returns the state that held before it.
// When there is nothing to undo the current state is returned and
// nothing is deleted: the match.started event is a match's creation
// record and is never removed.
func (s *Service) Undo(ctx context.Context, matchID string) (match.State, error) {
	initial, events, err := s.load(ctx, matchID)
	if err != nil {
		return match.State{}, fmt.Errorf("undo: %w", err)
	}

	restored, tail := journal.UndoLast(initial, events)
	if tail == nil || tail.Kind == journal.KindMatchStarted {
		return journal.CurrentState(initial, events), nil
	}

	if err := s.storage.DeleteTail(ctx, matchID, tail.ID); err != nil {
		return match.State{}, fmt.Errorf("undo in match %s: %w", matchID, err)
	}

	s.log.InfoContext(ctx, "event undone",
		"match_id", matchID,
		"seq", tail.Seq,
		"kind", string(tail.Kind))
	return restored, nil
}

// Correct appends a score.corrected event carrying an operator-supplied
// replacement snapshot. The note is mandatory; corrections without a
// stated reason are rejected.
func (s *Service) Correct(ctx context.Context, matchID string, snapshot match.State, actor, note string) (match.State, error) {
	_, events, err := s.load(ctx, matchID)
	if err != nil {
		return match.State{}, fmt.Errorf("correct: %w", err)
	}

	ev, err := journal.Correct(events, snapshot, actor, note, s.clock.Now())
	if err != nil {
		return match.State{}, fmt.Errorf("correct match %s: %w", matchID, err)
	}
	if err := s.storage.AppendEvent(ctx, ev, ev.Seq-1); err != nil {
		return match.State{}, fmt.Errorf("correct match %s: %w", matchID, err)
	}

	s.log.InfoContext(ctx, "score corrected",
		"match_id", matchID,
		"seq", ev.Seq,
		"actor", actor)
	return snapshot, nil
}

// State derives the current state of a match from its event log.
func (s *Service) State(ctx context.Context, matchID string) (match.State, error) {
	initial, events, err := s.load(ctx, matchID)
	if err != nil {
		return match.State{}, fmt.Errorf("read state: %w", err)
	}
	return journal.CurrentState(initial, events), nil
}

// Events returns the full event log of a match in sequence order.
func (s *Service) Events(ctx context.Context, matchID string) ([]journal.Event, error) {
	events, err := s.storage.ReadEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("read events for match %s: %w", matchID, err)
	}
	return events, nil
}

// Matches lists the head projection of every recorded match, most
// recently updated first.
func (s *Service) Matches(ctx context.Context) ([]store.Head, error) {
	heads, err := s.storage.ListHeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return heads, nil
}

func (s *Service) load(ctx context.Context, matchID string) (match.State, []journal.Event, error) {
	initial, err := s.storage.InitialState(ctx, matchID)
	if err != nil {
		return match.State{}, nil, err
	}
	events, err := s.storage.ReadEvents(ctx, matchID)
	if err != nil {
		return match.State{}, nil, err
	}
	return initial, events, nil
}
