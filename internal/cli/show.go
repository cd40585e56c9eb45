package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtlog/courtlog/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <match-id>",
		Short: "Show the current score of a match",
		Long: `Show the current score of a match, derived from its event log.

Example:
  courtlog show 0198f2e4-07a1-7def-8c4b-2f9a8d1c3e55 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, matchID string, cmd *cobra.Command) error {
	st, svc, err := openService(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	state, err := svc.State(cmd.Context(), matchID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitCommandError, fmt.Sprintf("match %s not found", matchID), err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to read match", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), newScoreboard(state))
	}
	writeScoreboardText(cmd.OutOrStdout(), newScoreboard(state))
	return nil
}
