package engine

import (
	"fmt"
	"strings"

	"github.com/courtlog/courtlog/internal/match"
)

// Advantage scores games along the 0/15/30/40/AD label sequence, sets by
// games with tiebreaks, and matches by sets. It is stateless; every method
// returns a new state value.
type Advantage struct{}

// InitialState implements Engine.
func (Advantage) InitialState(matchID string, policy match.Policy, serving match.Side) match.State {
	return match.State{
		MatchID:    matchID,
		Policy:     policy,
		Sets:       []match.SetState{{Number: 1}},
		CurrentSet: 0,
		Game:       match.NewAdvantageGame(),
		Serving:    serving,
	}
}

// Advance implements Engine.
func (Advantage) Advance(state match.State, side match.Side) (match.State, error) {
	if !side.Valid() {
		return match.State{}, invalidSide(side)
	}
	if state.Complete {
		return state, nil
	}

	next := state.Clone()
	if next.ActiveSet().IsTiebreak {
		advanceTiebreak(&next, side)
		return next, nil
	}

	game, ok := next.Game.(match.AdvantageGame)
	if !ok {
		panic(fmt.Sprintf("engine: advantage engine on %T game state", next.Game))
	}

	mine := game.Label(side)
	theirs := game.Label(side.Other())
	switch {
	case mine == match.Forty && theirs == match.Forty:
		if next.Policy.Advantage {
			next.Game = game.WithLabel(side, match.Advantage)
		} else {
			// Sudden-death deuce: one point decides the game.
			winGame(&next, side)
		}
	case mine == match.Advantage:
		winGame(&next, side)
	case theirs == match.Advantage:
		// Advantage lost: back to deuce.
		next.Game = game.WithLabel(side.Other(), match.Forty)
	case mine == match.Forty:
		winGame(&next, side)
	default:
		next.Game = game.WithLabel(side, match.NextLabel(mine))
	}
	return next, nil
}

// winGame credits a completed game, rotates serve, and promotes set and
// match wins. Serve rotation happens after every completed game, including
// games that end a set or the match.
func winGame(next *match.State, side match.Side) {
	set := next.ActiveSet()
	set.Games = set.Games.Add(side)
	next.Game = match.NewAdvantageGame()
	next.Serving = next.Serving.Other()

	p := next.Policy
	if set.Games.Get(side) >= p.GamesPerSet && set.Games.Lead(side) >= 2 {
		winSet(next, side)
		return
	}
	if p.TiebreakAt > 0 && set.Games.Side1 == p.TiebreakAt && set.Games.Side2 == p.TiebreakAt {
		set.IsTiebreak = true
		set.Tiebreak = &match.ScorePair{}
		set.TiebreakServer = next.Serving
	}
}

// advanceTiebreak scores one tiebreak point, handling serve rotation and
// set/match promotion on a win.
func advanceTiebreak(next *match.State, side match.Side) {
	set := next.ActiveSet()
	if set.Tiebreak == nil {
		panic(fmt.Sprintf("engine: set %d in tiebreak without a tally", set.Number))
	}

	tb := set.Tiebreak.Add(side)
	set.Tiebreak = &tb

	target := next.Policy.TiebreakTarget(set.Number)
	if tb.Get(side) >= target && tb.Lead(side) >= 2 {
		set.Games = set.Games.Add(side)
		next.Game = match.NewAdvantageGame()
		// The tiebreak counts as the set's final game; the side that
		// served its first point receives first in the next set.
		next.Serving = set.TiebreakServer.Other()
		winSet(next, side)
		return
	}

	next.Serving = tiebreakServer(set.TiebreakServer, tb.Total())
}

// tiebreakServer returns the side serving the point at index played
// (0-based): the opening server serves the first point only, then serve
// alternates every two points.
func tiebreakServer(first match.Side, played int) match.Side {
	if ((played+1)/2)%2 == 0 {
		return first
	}
	return first.Other()
}

// winSet records a set winner and either completes the match or opens the
// next set.
func winSet(next *match.State, side match.Side) {
	next.ActiveSet().Winner = side
	if next.SetsWon(side) == next.Policy.SetsToWin {
		next.Complete = true
		next.Winner = side
		return
	}
	next.Sets = append(next.Sets, match.SetState{Number: len(next.Sets) + 1})
	next.CurrentSet++
}

// FormatSets implements Engine. Completed tiebreak sets show the loser's
// tiebreak points in parentheses, e.g. "7-6(4)".
func (Advantage) FormatSets(state match.State) string {
	parts := make([]string, 0, len(state.Sets))
	for _, set := range state.Sets {
		part := fmt.Sprintf("%d-%d", set.Games.Side1, set.Games.Side2)
		if set.Winner.Valid() && set.IsTiebreak && set.Tiebreak != nil {
			loser := min(set.Tiebreak.Side1, set.Tiebreak.Side2)
			part += fmt.Sprintf("(%d)", loser)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// FormatGame implements Engine. Returns the tiebreak tally while one is in
// progress, the point labels otherwise, and "" once the match is complete.
func (Advantage) FormatGame(state match.State) string {
	if state.Complete {
		return ""
	}
	set := state.Sets[state.CurrentSet]
	if set.IsTiebreak {
		if set.Tiebreak == nil {
			panic(fmt.Sprintf("engine: set %d in tiebreak without a tally", set.Number))
		}
		return fmt.Sprintf("%d-%d", set.Tiebreak.Side1, set.Tiebreak.Side2)
	}
	game, ok := state.Game.(match.AdvantageGame)
	if !ok {
		panic(fmt.Sprintf("engine: advantage engine on %T game state", state.Game))
	}
	return fmt.Sprintf("%s-%s", game.Label1, game.Label2)
}
