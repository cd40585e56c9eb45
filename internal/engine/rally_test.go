package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtlog/courtlog/internal/match"
)

func pickleballState(t *testing.T, serving match.Side) match.State {
	t.Helper()
	policy, ok := match.PolicyFor(match.SportPickleball)
	require.True(t, ok)
	return Rally{}.InitialState("test-match", policy, serving)
}

func badmintonState(t *testing.T, serving match.Side) match.State {
	t.Helper()
	policy, ok := match.PolicyFor(match.SportBadminton)
	require.True(t, ok)
	return Rally{}.InitialState("test-match", policy, serving)
}

func TestRally_SideOutReceiverScoresNoPoint(t *testing.T) {
	state := pickleballState(t, match.Side1)

	// Receiver wins the rally: no point, second server slot takes over.
	state = play(t, Rally{}, state, match.Side2)
	game := state.Game.(match.RallyGame)
	assert.Equal(t, 0, game.Points1)
	assert.Equal(t, 0, game.Points2)
	assert.Equal(t, 2, game.ServerSlot)
	assert.Equal(t, match.Side1, state.Serving)

	// Receiver wins again: both slots exhausted, serve passes over.
	state = play(t, Rally{}, state, match.Side2)
	game = state.Game.(match.RallyGame)
	assert.Equal(t, 1, game.ServerSlot)
	assert.Equal(t, match.Side2, state.Serving)
}

func TestRally_SideOutServerScores(t *testing.T) {
	state := pickleballState(t, match.Side1)

	state = play(t, Rally{}, state, match.Side1, match.Side1, match.Side1)
	game := state.Game.(match.RallyGame)
	assert.Equal(t, 3, game.Points1)
	assert.Equal(t, match.Side1, state.Serving, "serving side keeps serve while scoring")
	assert.Equal(t, 1, game.ServerSlot)
	assert.Equal(t, "3-0-1", Rally{}.FormatGame(state))
}

func TestRally_RallyScoringServerOfRecord(t *testing.T) {
	state := badmintonState(t, match.Side1)

	// Every rally scores, and the scorer serves next.
	state = play(t, Rally{}, state, match.Side2)
	game := state.Game.(match.RallyGame)
	assert.Equal(t, 1, game.Points2)
	assert.Equal(t, match.Side2, state.Serving)

	state = play(t, Rally{}, state, match.Side1)
	game = state.Game.(match.RallyGame)
	assert.Equal(t, 1, game.Points1)
	assert.Equal(t, match.Side1, state.Serving)
	assert.Equal(t, "1-1", Rally{}.FormatGame(state))
}

func TestRally_WinByTwo(t *testing.T) {
	state := badmintonState(t, match.Side1)

	// 20-20, then 21-20: target reached but no two-point lead.
	for i := 0; i < 20; i++ {
		state = play(t, Rally{}, state, match.Side1, match.Side2)
	}
	state = play(t, Rally{}, state, match.Side1)
	assert.Equal(t, match.SideNone, state.Sets[0].Winner)

	// 22-20 closes the game.
	state = play(t, Rally{}, state, match.Side1)
	assert.Equal(t, match.Side1, state.Sets[0].Winner)
	require.NotNil(t, state.Sets[0].Points)
	assert.Equal(t, match.ScorePair{Side1: 22, Side2: 20}, *state.Sets[0].Points)
}

func TestRally_GameWinOpensNextGame(t *testing.T) {
	state := pickleballState(t, match.Side1)
	state = play(t, Rally{}, state, repeat(match.Side1, 11)...)

	require.Len(t, state.Sets, 2)
	assert.Equal(t, match.Side1, state.Sets[0].Winner)
	assert.Equal(t, match.ScorePair{Side1: 11, Side2: 0}, *state.Sets[0].Points)
	assert.Equal(t, match.Side2, state.Serving, "loser serves the next game")
	assert.Equal(t, match.NewRallyGame(), state.Game)
	assert.Equal(t, "11-0 0-0", Rally{}.FormatSets(state))
}

func TestRally_CompletedMatchIsNoOp(t *testing.T) {
	state := pickleballState(t, match.Side1)
	state = play(t, Rally{}, state, repeat(match.Side1, 11)...)
	// Side 1 receives now; win the serve back, then the game.
	state = play(t, Rally{}, state, match.Side1, match.Side1)
	state = play(t, Rally{}, state, repeat(match.Side1, 11)...)

	require.True(t, state.Complete)
	assert.Equal(t, match.Side1, state.Winner)
	assert.Equal(t, "", Rally{}.FormatGame(state))

	after, err := Rally{}.Advance(state, match.Side2)
	require.NoError(t, err)
	assert.Equal(t, state, after)
}

func TestRally_InvalidSide(t *testing.T) {
	state := badmintonState(t, match.Side1)
	_, err := Rally{}.Advance(state, match.Side(7))
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestForPolicy_CustomRallyPolicy(t *testing.T) {
	custom := match.Policy{
		Sport:         "squash",
		SetsToWin:     3,
		PointsPerGame: 11,
		RallyScoring:  true,
		WinByTwo:      true,
	}
	require.NoError(t, custom.Validate())
	assert.IsType(t, Rally{}, ForPolicy(custom))
	assert.IsType(t, Advantage{}, ForPolicy(match.Policy{Sport: "realtennis", SetsToWin: 2, GamesPerSet: 6}))
}
