package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtlog/courtlog/internal/store"
)

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <match-id>",
		Short: "Remove the most recent event of a match",
		Long: `Remove the most recent event of a match and print the restored score.

Only the latest event is removable; the log never rewrites history in
the middle. Undoing a match with no scored points is a no-op.

Exit codes:
  0 - event removed (or nothing to undo)
  1 - concurrent write detected, retry
  2 - command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runUndo(opts *RootOptions, matchID string, cmd *cobra.Command) error {
	st, svc, err := openService(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	state, err := svc.Undo(cmd.Context(), matchID)
	switch {
	case errors.Is(err, store.ErrConflict):
		return WrapExitError(ExitFailure, "another writer changed the match, retry", err)
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitCommandError, fmt.Sprintf("match %s not found", matchID), err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to undo", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), newScoreboard(state))
	}
	writeScoreboardText(cmd.OutOrStdout(), newScoreboard(state))
	return nil
}
