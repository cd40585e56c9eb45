package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MatchSummary is the JSON form of one match in the listing.
type MatchSummary struct {
	MatchID  string `json:"match_id"`
	Sport    string `json:"sport"`
	Events   int64  `json:"events"`
	Sets     string `json:"sets"`
	Complete bool   `json:"complete"`
	Winner   string `json:"winner,omitempty"`
}

// NewMatchesCommand creates the matches command.
func NewMatchesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "matches",
		Short:         "List recorded matches",
		Long:          "List every match in the database, most recently updated first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatches(rootOpts, cmd)
		},
	}
	return cmd
}

func runMatches(opts *RootOptions, cmd *cobra.Command) error {
	st, svc, err := openService(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	heads, err := svc.Matches(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list matches", err)
	}

	summaries := make([]MatchSummary, 0, len(heads))
	for _, h := range heads {
		sb := newScoreboard(h.State)
		s := MatchSummary{
			MatchID:  h.MatchID,
			Sport:    string(h.Sport),
			Events:   h.LastSeq,
			Sets:     sb.Sets,
			Complete: h.Complete,
		}
		if h.Complete {
			s.Winner = h.Winner.String()
		}
		summaries = append(summaries, s)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), summaries)
	}

	w := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No matches recorded.")
		return nil
	}
	for _, s := range summaries {
		status := "in progress"
		if s.Complete {
			status = fmt.Sprintf("won by side %s", s.Winner)
		}
		fmt.Fprintf(w, "%s  %-11s %-12s %s\n", s.MatchID, s.Sport, status, s.Sets)
	}
	return nil
}
