package cli

import (
	"fmt"
	"io"

	"github.com/courtlog/courtlog/internal/engine"
	"github.com/courtlog/courtlog/internal/match"
)

// Scoreboard is the JSON summary of a match state.
type Scoreboard struct {
	MatchID  string `json:"match_id"`
	Sport    string `json:"sport"`
	Sets     string `json:"sets"`
	Game     string `json:"game,omitempty"`
	Serving  string `json:"serving,omitempty"`
	Complete bool   `json:"complete"`
	Winner   string `json:"winner,omitempty"`
}

// newScoreboard renders a state through its sport's engine.
func newScoreboard(state match.State) Scoreboard {
	eng := engine.ForPolicy(state.Policy)
	sb := Scoreboard{
		MatchID:  state.MatchID,
		Sport:    string(state.Policy.Sport),
		Sets:     eng.FormatSets(state),
		Game:     eng.FormatGame(state),
		Complete: state.Complete,
	}
	if state.Complete {
		sb.Winner = state.Winner.String()
	} else {
		sb.Serving = state.Serving.String()
	}
	return sb
}

// writeScoreboardText prints the human-readable scoreboard.
func writeScoreboardText(w io.Writer, sb Scoreboard) {
	fmt.Fprintf(w, "Match:   %s (%s)\n", sb.MatchID, sb.Sport)
	fmt.Fprintf(w, "Sets:    %s\n", sb.Sets)
	if sb.Game != "" {
		fmt.Fprintf(w, "Game:    %s\n", sb.Game)
	}
	if sb.Complete {
		fmt.Fprintf(w, "Winner:  side %s\n", sb.Winner)
	} else {
		fmt.Fprintf(w, "Serving: side %s\n", sb.Serving)
	}
}
