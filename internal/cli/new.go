package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtlog/courtlog/internal/match"
	"github.com/courtlog/courtlog/internal/rules"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Server string
	Rules  string
	Actor  string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <sport>",
		Short: "Start a new match",
		Long: `Start a new match under a sport's scoring rules.

The sport is one of the built-ins (see 'courtlog sports') or the name
declared by a custom rule file passed with --rules.

Examples:
  courtlog new tennis
  courtlog new pickleball --server 2
  courtlog new squash --rules ./squash.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sport := ""
			if len(args) == 1 {
				sport = args[0]
			}
			return runNew(opts, sport, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Server, "server", "1", "side serving first (1|2)")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "path to a YAML rule file for a custom sport")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "actor recorded on the event")

	return cmd
}

func runNew(opts *NewOptions, sport string, cmd *cobra.Command) error {
	if sport == "" && opts.Rules == "" {
		return NewExitError(ExitCommandError, "a sport name or --rules is required")
	}

	serving, err := match.ParseSide(opts.Server)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --server", err)
	}
	policy, err := rules.Resolve(sport, opts.Rules)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot resolve sport rules", err)
	}

	st, svc, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	state, err := svc.Start(cmd.Context(), policy, serving, opts.Actor)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start match", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), newScoreboard(state))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Started %s match %s (side %s serves)\n",
		policy.Sport, state.MatchID, serving)
	return nil
}
