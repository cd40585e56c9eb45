package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtlog/courtlog/internal/match"
)

const squashRules = `
policy:
  sport: squash
  sets_to_win: 3
  points_per_game: 11
  rally_scoring: true
  win_by_two: true
`

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_ValidRuleFile(t *testing.T) {
	policy, err := Parse("rules.yaml", []byte(squashRules))
	require.NoError(t, err)

	assert.Equal(t, match.Sport("squash"), policy.Sport)
	assert.Equal(t, 3, policy.SetsToWin)
	assert.Equal(t, 11, policy.PointsPerGame)
	assert.True(t, policy.RallyScoring)
	assert.Equal(t, match.FamilyRally, policy.Family())
}

func TestParse_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing sport", "policy:\n  sets_to_win: 2\n"},
		{"sets out of range", "policy:\n  sport: x\n  sets_to_win: 9\n"},
		{"wrong type", "policy:\n  sport: x\n  sets_to_win: lots\n"},
		{"unknown field", "policy:\n  sport: x\n  sets_to_win: 2\n  best_of: 5\n"},
		{"not yaml", "policy: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("rules.yaml", []byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_StructuralValidationAfterDecode(t *testing.T) {
	// Passes the schema but fails policy validation: rally and side-out
	// scoring are mutually exclusive.
	content := `
policy:
  sport: x
  sets_to_win: 2
  points_per_game: 11
  rally_scoring: true
  side_out: true
`
	_, err := Parse("rules.yaml", []byte(content))
	assert.Error(t, err)
}

func TestLoad_ReadsFromDisk(t *testing.T) {
	path := writeRuleFile(t, squashRules)
	policy, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, match.Sport("squash"), policy.Sport)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	policy, err := Resolve("tennis", "")
	require.NoError(t, err)
	assert.Equal(t, match.SportTennis, policy.Sport)

	_, err = Resolve("cricket", "")
	assert.Error(t, err)

	path := writeRuleFile(t, squashRules)
	policy, err = Resolve("squash", path)
	require.NoError(t, err)
	assert.Equal(t, match.Sport("squash"), policy.Sport)

	_, err = Resolve("tennis", path)
	assert.Error(t, err, "rule file sport must match the requested name")

	policy, err = Resolve("", path)
	require.NoError(t, err)
	assert.Equal(t, match.Sport("squash"), policy.Sport)
}
