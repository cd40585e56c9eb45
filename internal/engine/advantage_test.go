package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtlog/courtlog/internal/match"
)

func tennisState(t *testing.T, serving match.Side) match.State {
	t.Helper()
	policy, ok := match.PolicyFor(match.SportTennis)
	require.True(t, ok)
	return Advantage{}.InitialState("test-match", policy, serving)
}

func padelState(t *testing.T, serving match.Side) match.State {
	t.Helper()
	policy, ok := match.PolicyFor(match.SportPadel)
	require.True(t, ok)
	return Advantage{}.InitialState("test-match", policy, serving)
}

// play advances the state through a sequence of rally winners.
func play(t *testing.T, eng Engine, state match.State, sides ...match.Side) match.State {
	t.Helper()
	for _, side := range sides {
		next, err := eng.Advance(state, side)
		require.NoError(t, err)
		state = next
	}
	return state
}

// repeat builds a rally sequence of n wins for one side.
func repeat(side match.Side, n int) []match.Side {
	sides := make([]match.Side, n)
	for i := range sides {
		sides[i] = side
	}
	return sides
}

// playGames plays whole love games, alternating winners per the given
// sequence. Only valid outside tiebreaks.
func playGames(t *testing.T, state match.State, winners ...match.Side) match.State {
	t.Helper()
	for _, winner := range winners {
		state = play(t, Advantage{}, state, repeat(winner, 4)...)
	}
	return state
}

func TestAdvantage_LoveGame(t *testing.T) {
	state := tennisState(t, match.Side1)

	state = play(t, Advantage{}, state, match.Side1, match.Side1, match.Side1)
	game := state.Game.(match.AdvantageGame)
	assert.Equal(t, match.Forty, game.Label1)
	assert.Equal(t, match.Love, game.Label2)

	state = play(t, Advantage{}, state, match.Side1)
	assert.Equal(t, match.ScorePair{Side1: 1, Side2: 0}, state.Sets[0].Games)
	assert.Equal(t, match.NewAdvantageGame(), state.Game)
	assert.Equal(t, match.Side2, state.Serving, "serve rotates after every game")
}

func TestAdvantage_DeuceAdvantageCycle(t *testing.T) {
	state := tennisState(t, match.Side1)

	// Three points each: deuce.
	state = play(t, Advantage{}, state, match.Side1, match.Side1, match.Side1,
		match.Side2, match.Side2, match.Side2)
	game := state.Game.(match.AdvantageGame)
	assert.Equal(t, match.Forty, game.Label1)
	assert.Equal(t, match.Forty, game.Label2)

	// Side 1 takes advantage.
	state = play(t, Advantage{}, state, match.Side1)
	game = state.Game.(match.AdvantageGame)
	assert.Equal(t, match.Advantage, game.Label1)
	assert.Equal(t, match.Forty, game.Label2)

	// Side 2 breaks it back to deuce.
	state = play(t, Advantage{}, state, match.Side2)
	game = state.Game.(match.AdvantageGame)
	assert.Equal(t, match.Forty, game.Label1)
	assert.Equal(t, match.Forty, game.Label2)

	// Side 2 takes advantage and converts.
	state = play(t, Advantage{}, state, match.Side2, match.Side2)
	assert.Equal(t, match.ScorePair{Side1: 0, Side2: 1}, state.Sets[0].Games)
}

func TestAdvantage_GoldenPoint(t *testing.T) {
	// Padel plays sudden death at deuce: no advantage step.
	state := padelState(t, match.Side1)

	state = play(t, Advantage{}, state, match.Side1, match.Side1, match.Side1,
		match.Side2, match.Side2, match.Side2)
	state = play(t, Advantage{}, state, match.Side2)

	assert.Equal(t, match.ScorePair{Side1: 0, Side2: 1}, state.Sets[0].Games)
	assert.Equal(t, match.NewAdvantageGame(), state.Game)
}

func TestAdvantage_SetWin_SixLove(t *testing.T) {
	state := tennisState(t, match.Side1)
	state = playGames(t, state, repeat(match.Side1, 6)...)

	require.Len(t, state.Sets, 2)
	assert.Equal(t, match.Side1, state.Sets[0].Winner)
	assert.Equal(t, match.ScorePair{Side1: 6, Side2: 0}, state.Sets[0].Games)
	assert.Equal(t, 1, state.CurrentSet)
	assert.False(t, state.Complete)
}

func TestAdvantage_SetWin_SevenFive(t *testing.T) {
	state := tennisState(t, match.Side1)

	// 5-5, then side 1 takes two games: 7-5 without a tiebreak.
	for i := 0; i < 5; i++ {
		state = playGames(t, state, match.Side1, match.Side2)
	}
	state = playGames(t, state, match.Side1, match.Side1)

	assert.Equal(t, match.Side1, state.Sets[0].Winner)
	assert.Equal(t, match.ScorePair{Side1: 7, Side2: 5}, state.Sets[0].Games)
	assert.False(t, state.Sets[0].IsTiebreak)
}

func TestAdvantage_SixAllEntersTiebreak(t *testing.T) {
	state := tennisState(t, match.Side1)
	for i := 0; i < 6; i++ {
		state = playGames(t, state, match.Side1, match.Side2)
	}

	set := state.Sets[0]
	assert.True(t, set.IsTiebreak)
	require.NotNil(t, set.Tiebreak)
	assert.Equal(t, match.ScorePair{}, *set.Tiebreak)
	// Twelve games rotate serve back to the opener, who also opens the
	// tiebreak.
	assert.Equal(t, match.Side1, set.TiebreakServer)
	assert.Equal(t, match.Side1, state.Serving)
}

func TestAdvantage_TiebreakWinBySeven(t *testing.T) {
	state := tennisState(t, match.Side1)
	for i := 0; i < 6; i++ {
		state = playGames(t, state, match.Side1, match.Side2)
	}

	state = play(t, Advantage{}, state, repeat(match.Side1, 7)...)

	set := state.Sets[0]
	assert.Equal(t, match.Side1, set.Winner)
	assert.Equal(t, match.ScorePair{Side1: 7, Side2: 6}, set.Games)
	assert.Equal(t, match.ScorePair{Side1: 7, Side2: 0}, *set.Tiebreak)
	// The opener's opponent serves first in the next set.
	assert.Equal(t, match.Side2, state.Serving)
	assert.Equal(t, "7-6(0) 0-0", Advantage{}.FormatSets(state))
}

func TestAdvantage_TiebreakRequiresTwoPointLead(t *testing.T) {
	state := tennisState(t, match.Side1)
	for i := 0; i < 6; i++ {
		state = playGames(t, state, match.Side1, match.Side2)
	}

	// 6-6 in the tiebreak, then 7-6: not won yet.
	for i := 0; i < 6; i++ {
		state = play(t, Advantage{}, state, match.Side1, match.Side2)
	}
	state = play(t, Advantage{}, state, match.Side1)
	assert.Equal(t, match.SideNone, state.Sets[0].Winner)
	assert.Equal(t, "7-6", Advantage{}.FormatGame(state))

	// 8-6 closes it.
	state = play(t, Advantage{}, state, match.Side1)
	assert.Equal(t, match.Side1, state.Sets[0].Winner)
}

func TestAdvantage_TiebreakServeRotation(t *testing.T) {
	// Opener serves the first point, then serve alternates every two.
	servers := []match.Side{
		match.Side1, // point 1
		match.Side2, match.Side2, // points 2-3
		match.Side1, match.Side1, // points 4-5
		match.Side2, match.Side2, // points 6-7
	}
	for played, want := range servers {
		assert.Equal(t, want, tiebreakServer(match.Side1, played), "point index %d", played)
	}
}

func TestAdvantage_SuperTiebreakOnDecidingSet(t *testing.T) {
	state := tennisState(t, match.Side1)

	// Split the first two sets, then reach 6-6 in the decider.
	state = playGames(t, state, repeat(match.Side1, 6)...)
	state = playGames(t, state, repeat(match.Side2, 6)...)
	for i := 0; i < 6; i++ {
		state = playGames(t, state, match.Side1, match.Side2)
	}
	require.True(t, state.Sets[2].IsTiebreak)

	// Seven points are not enough in a super tiebreak.
	state = play(t, Advantage{}, state, repeat(match.Side1, 7)...)
	assert.Equal(t, match.SideNone, state.Sets[2].Winner)

	// Ten points to the same side close set and match.
	state = play(t, Advantage{}, state, repeat(match.Side1, 3)...)
	assert.True(t, state.Complete)
	assert.Equal(t, match.Side1, state.Winner)
	assert.Equal(t, match.ScorePair{Side1: 10, Side2: 0}, *state.Sets[2].Tiebreak)
}

func TestAdvantage_CompletedMatchIsNoOp(t *testing.T) {
	state := tennisState(t, match.Side1)
	state = playGames(t, state, repeat(match.Side1, 12)...)

	require.True(t, state.Complete)
	assert.Equal(t, match.Side1, state.Winner)
	assert.Equal(t, "6-0 6-0", Advantage{}.FormatSets(state))
	assert.Equal(t, "", Advantage{}.FormatGame(state))

	after, err := Advantage{}.Advance(state, match.Side2)
	require.NoError(t, err)
	assert.Equal(t, state, after)
}

func TestAdvantage_InvalidSide(t *testing.T) {
	state := tennisState(t, match.Side1)
	_, err := Advantage{}.Advance(state, match.SideNone)
	assert.ErrorIs(t, err, ErrInvalidSide)
}
