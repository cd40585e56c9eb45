package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtlog/courtlog/internal/match"
	"github.com/courtlog/courtlog/internal/store"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	*RootOptions
	Actor string
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "score <match-id> <side>",
		Short: "Record a rally won by a side",
		Long: `Record a rally won by side 1 or side 2 and print the new score.

Scoring a completed match changes nothing and reports the final score.

Exit codes:
  0 - point recorded (or match already complete)
  1 - concurrent write detected, retry
  2 - command error

Example:
  courtlog score 0198f2e4-07a1-7def-8c4b-2f9a8d1c3e55 1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "actor recorded on the event")

	return cmd
}

func runScore(opts *ScoreOptions, matchID, rawSide string, cmd *cobra.Command) error {
	side, err := match.ParseSide(rawSide)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid side", err)
	}

	st, svc, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	state, ev, err := svc.Score(cmd.Context(), matchID, side, opts.Actor)
	switch {
	case errors.Is(err, store.ErrConflict):
		return WrapExitError(ExitFailure, "another writer changed the match, retry", err)
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitCommandError, fmt.Sprintf("match %s not found", matchID), err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to score point", err)
	}

	sb := newScoreboard(state)
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), sb)
	}
	if ev == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Match is already complete; nothing recorded.")
	}
	writeScoreboardText(cmd.OutOrStdout(), sb)
	return nil
}
