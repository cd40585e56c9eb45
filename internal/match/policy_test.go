package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor_Builtins(t *testing.T) {
	for _, sport := range Sports() {
		policy, ok := PolicyFor(sport)
		require.True(t, ok, "builtin %s missing", sport)
		assert.NoError(t, policy.Validate(), "builtin %s invalid", sport)
		assert.Equal(t, sport, policy.Sport)
	}

	_, ok := PolicyFor("cricket")
	assert.False(t, ok)
}

func TestPolicy_Family(t *testing.T) {
	tennis, _ := PolicyFor(SportTennis)
	assert.Equal(t, FamilyAdvantage, tennis.Family())

	pickleball, _ := PolicyFor(SportPickleball)
	assert.Equal(t, FamilyRally, pickleball.Family())

	badminton, _ := PolicyFor(SportBadminton)
	assert.Equal(t, FamilyRally, badminton.Family())
}

func TestPolicy_TiebreakTarget(t *testing.T) {
	tennis, _ := PolicyFor(SportTennis)
	assert.Equal(t, 3, tennis.DecidingSet())
	assert.Equal(t, 7, tennis.TiebreakTarget(1))
	assert.Equal(t, 7, tennis.TiebreakTarget(2))
	assert.Equal(t, 10, tennis.TiebreakTarget(3), "deciding set plays a super tiebreak")

	padel, _ := PolicyFor(SportPadel)
	assert.Equal(t, 7, padel.TiebreakTarget(3), "no super tiebreak unless enabled")
}

func TestPolicy_Validate(t *testing.T) {
	cases := []struct {
		name   string
		policy Policy
	}{
		{"missing sport", Policy{SetsToWin: 2, GamesPerSet: 6}},
		{"zero sets", Policy{Sport: "tennis", GamesPerSet: 6}},
		{"both scoring modes", Policy{Sport: "x", SetsToWin: 2, PointsPerGame: 11, RallyScoring: true, SideOut: true}},
		{"rally without target", Policy{Sport: "x", SetsToWin: 2, RallyScoring: true}},
		{"advantage without games", Policy{Sport: "x", SetsToWin: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.policy.Validate())
		})
	}
}
