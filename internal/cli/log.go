package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/courtlog/courtlog/internal/engine"
	"github.com/courtlog/courtlog/internal/journal"
	"github.com/courtlog/courtlog/internal/store"
)

// LogEntry is the JSON form of one event in the log listing.
type LogEntry struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Side      string `json:"side,omitempty"`
	Sets      string `json:"sets"`
	Game      string `json:"game,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Note      string `json:"note,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <match-id>",
		Short: "List the event log of a match",
		Long: `List every recorded event of a match in sequence order, with the
score that held after each one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLog(opts *RootOptions, matchID string, cmd *cobra.Command) error {
	st, svc, err := openService(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := svc.Events(cmd.Context(), matchID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitCommandError, fmt.Sprintf("match %s not found", matchID), err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to read event log", err)
	}

	entries := make([]LogEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, newLogEntry(ev))
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), entries)
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No events recorded.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%4d  %-16s", e.Seq, e.Kind)
		if e.Side != "" {
			line += fmt.Sprintf("  side %s", e.Side)
		}
		line += fmt.Sprintf("  %s", e.Sets)
		if e.Game != "" {
			line += fmt.Sprintf(" (%s)", e.Game)
		}
		if e.Note != "" {
			line += fmt.Sprintf("  %q", e.Note)
		}
		fmt.Fprintln(w, line)
		if opts.Verbose {
			fmt.Fprintf(w, "      id=%s at=%s actor=%s\n", e.ID, e.Timestamp, e.Actor)
		}
	}
	return nil
}

func newLogEntry(ev journal.Event) LogEntry {
	eng := engine.ForPolicy(ev.Snapshot.Policy)
	entry := LogEntry{
		Seq:       ev.Seq,
		ID:        ev.ID,
		Kind:      string(ev.Kind),
		Sets:      eng.FormatSets(ev.Snapshot),
		Game:      eng.FormatGame(ev.Snapshot),
		Actor:     ev.Actor,
		Note:      ev.Note,
		Timestamp: ev.Timestamp.Format(time.RFC3339Nano),
	}
	if ev.Side.Valid() {
		entry.Side = ev.Side.String()
	}
	return entry
}
