package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// executeJSON runs the CLI with --format json and decodes the response.
func executeJSON(t *testing.T, args ...string) (Response, error) {
	t.Helper()
	out, err := execute(t, append(args, "--format", "json")...)
	if err != nil {
		return Response{}, err
	}
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, nil
}

// scoreboardData re-decodes a response's data payload as a Scoreboard.
func scoreboardData(t *testing.T, resp Response) Scoreboard {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var sb Scoreboard
	require.NoError(t, json.Unmarshal(raw, &sb))
	return sb
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "courtlog.db")
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := execute(t, "sports", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestNewScoreShowFlow(t *testing.T) {
	db := testDB(t)

	resp, err := executeJSON(t, "new", "tennis", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	sb := scoreboardData(t, resp)
	require.NotEmpty(t, sb.MatchID)
	assert.Equal(t, "tennis", sb.Sport)
	assert.Equal(t, "0-0", sb.Sets)
	assert.Equal(t, "1", sb.Serving)

	resp, err = executeJSON(t, "score", sb.MatchID, "1", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "15-0", scoreboardData(t, resp).Game)

	resp, err = executeJSON(t, "show", sb.MatchID, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "15-0", scoreboardData(t, resp).Game)

	out, err := execute(t, "show", sb.MatchID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Game:    15-0")
	assert.Contains(t, out, "Serving: side 1")
}

func TestUndoRestoresScore(t *testing.T) {
	db := testDB(t)

	resp, err := executeJSON(t, "new", "badminton", "--db", db, "--server", "2")
	require.NoError(t, err)
	matchID := scoreboardData(t, resp).MatchID

	_, err = execute(t, "score", matchID, "1", "--db", db)
	require.NoError(t, err)

	resp, err = executeJSON(t, "undo", matchID, "--db", db)
	require.NoError(t, err)
	sb := scoreboardData(t, resp)
	assert.Equal(t, "0-0", sb.Game)
	assert.Equal(t, "2", sb.Serving)
}

func TestLogListsEvents(t *testing.T) {
	db := testDB(t)

	resp, err := executeJSON(t, "new", "pickleball", "--db", db)
	require.NoError(t, err)
	matchID := scoreboardData(t, resp).MatchID

	_, err = execute(t, "score", matchID, "1", "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "log", matchID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "match.started")
	assert.Contains(t, out, "point.scored")

	resp, err = executeJSON(t, "log", matchID, "--db", db)
	require.NoError(t, err)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var entries []LogEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "point.scored", entries[1].Kind)
	assert.Equal(t, "1", entries[1].Side)
}

func TestMatchesListing(t *testing.T) {
	db := testDB(t)

	out, err := execute(t, "matches", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No matches recorded.")

	_, err = executeJSON(t, "new", "tennis", "--db", db)
	require.NoError(t, err)

	out, err = execute(t, "matches", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "tennis")
	assert.Contains(t, out, "in progress")
}

func TestNewWithRuleFile(t *testing.T) {
	db := testDB(t)
	rulePath := filepath.Join(t.TempDir(), "squash.yaml")
	content := `
policy:
  sport: squash
  sets_to_win: 3
  points_per_game: 11
  rally_scoring: true
  win_by_two: true
`
	require.NoError(t, os.WriteFile(rulePath, []byte(content), 0644))

	resp, err := executeJSON(t, "new", "squash", "--db", db, "--rules", rulePath)
	require.NoError(t, err)
	assert.Equal(t, "squash", scoreboardData(t, resp).Sport)
}

func TestScoreUnknownMatchExitsWithCommandError(t *testing.T) {
	db := testDB(t)
	_, err := execute(t, "score", "no-such-match", "1", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Message, "not found")
}

func TestNewRequiresSportOrRules(t *testing.T) {
	_, err := execute(t, "new", "--db", testDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSportsListsBuiltins(t *testing.T) {
	out, err := execute(t, "sports")
	require.NoError(t, err)
	for _, sport := range []string{"tennis", "padel", "pickleball", "badminton"} {
		assert.Contains(t, out, sport)
	}
}

func TestGetExitCode_DefaultsToFailure(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("plain error")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
}
