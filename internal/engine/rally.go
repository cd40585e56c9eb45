package engine

import (
	"fmt"
	"strings"

	"github.com/courtlog/courtlog/internal/match"
)

// Rally scores numeric rallies. Under side-out rules only the serving side
// accumulates points and a lost rally rotates serve through the side's two
// server slots; under rally scoring every rally scores for whichever side
// won it. Each game decides one set of the match.
type Rally struct{}

// InitialState implements Engine.
func (Rally) InitialState(matchID string, policy match.Policy, serving match.Side) match.State {
	return match.State{
		MatchID:    matchID,
		Policy:     policy,
		Sets:       []match.SetState{{Number: 1}},
		CurrentSet: 0,
		Game:       match.NewRallyGame(),
		Serving:    serving,
	}
}

// Advance implements Engine.
func (Rally) Advance(state match.State, side match.Side) (match.State, error) {
	if !side.Valid() {
		return match.State{}, invalidSide(side)
	}
	if state.Complete {
		return state, nil
	}

	next := state.Clone()
	game, ok := next.Game.(match.RallyGame)
	if !ok {
		panic(fmt.Sprintf("engine: rally engine on %T game state", next.Game))
	}
	p := next.Policy

	if p.SideOut && side != next.Serving {
		// No point under side-out rules: serve passes to the second
		// server slot, then to the opponent once both are exhausted.
		if game.ServerSlot == 1 {
			game.ServerSlot = 2
		} else {
			next.Serving = next.Serving.Other()
			game.ServerSlot = 1
		}
		next.Game = game
		return next, nil
	}

	game = game.WithPoint(side)
	if p.RallyScoring {
		// The server of record is the side that just scored.
		next.Serving = side
	}

	lead := game.Points(side) - game.Points(side.Other())
	if game.Points(side) >= p.PointsPerGame && (!p.WinByTwo || lead >= 2) {
		winRallyGame(&next, game, side)
		return next, nil
	}

	next.Game = game
	return next, nil
}

// winRallyGame closes the set decided by this game, recording the final
// tallies for the score line, and either completes the match or opens the
// next game with the losing side serving first.
func winRallyGame(next *match.State, game match.RallyGame, side match.Side) {
	set := next.ActiveSet()
	set.Games = set.Games.Add(side)
	set.Points = &match.ScorePair{Side1: game.Points1, Side2: game.Points2}
	set.Winner = side

	if next.SetsWon(side) == next.Policy.SetsToWin {
		next.Game = game
		next.Complete = true
		next.Winner = side
		return
	}

	next.Sets = append(next.Sets, match.SetState{Number: len(next.Sets) + 1})
	next.CurrentSet++
	next.Game = match.NewRallyGame()
	next.Serving = side.Other()
}

// FormatSets implements Engine. Completed sets show their final rally
// tallies ("11-7 11-9"); the set in progress shows the running tallies.
func (Rally) FormatSets(state match.State) string {
	parts := make([]string, 0, len(state.Sets))
	for _, set := range state.Sets {
		if set.Points != nil {
			parts = append(parts, fmt.Sprintf("%d-%d", set.Points.Side1, set.Points.Side2))
			continue
		}
		game, ok := state.Game.(match.RallyGame)
		if !ok {
			panic(fmt.Sprintf("engine: rally engine on %T game state", state.Game))
		}
		parts = append(parts, fmt.Sprintf("%d-%d", game.Points1, game.Points2))
	}
	return strings.Join(parts, " ")
}

// FormatGame implements Engine. Side-out mode uses the serving side's
// calling convention - server score, receiver score, server slot.
func (Rally) FormatGame(state match.State) string {
	if state.Complete {
		return ""
	}
	game, ok := state.Game.(match.RallyGame)
	if !ok {
		panic(fmt.Sprintf("engine: rally engine on %T game state", state.Game))
	}
	if state.Policy.SideOut {
		return fmt.Sprintf("%d-%d-%d",
			game.Points(state.Serving),
			game.Points(state.Serving.Other()),
			game.ServerSlot,
		)
	}
	return fmt.Sprintf("%d-%d", game.Points1, game.Points2)
}
