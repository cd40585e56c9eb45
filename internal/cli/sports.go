package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtlog/courtlog/internal/match"
)

// SportInfo is the JSON form of one built-in sport.
type SportInfo struct {
	Sport  string       `json:"sport"`
	Family string       `json:"family"`
	Policy match.Policy `json:"policy"`
}

// NewSportsCommand creates the sports command.
func NewSportsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sports",
		Short:         "List built-in sports and their rules",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSports(rootOpts, cmd)
		},
	}
	return cmd
}

func runSports(opts *RootOptions, cmd *cobra.Command) error {
	infos := make([]SportInfo, 0, len(match.Sports()))
	for _, sport := range match.Sports() {
		policy, _ := match.PolicyFor(sport)
		infos = append(infos, SportInfo{
			Sport:  string(sport),
			Family: string(policy.Family()),
			Policy: policy,
		})
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), infos)
	}

	w := cmd.OutOrStdout()
	for _, info := range infos {
		fmt.Fprintf(w, "%-11s %s family\n", info.Sport, info.Family)
		switch match.Family(info.Family) {
		case match.FamilyAdvantage:
			fmt.Fprintf(w, "  best of %d sets, %d games per set", 2*info.Policy.SetsToWin-1, info.Policy.GamesPerSet)
			if info.Policy.TiebreakAt > 0 {
				fmt.Fprintf(w, ", tiebreak at %d-%d", info.Policy.TiebreakAt, info.Policy.TiebreakAt)
			}
			if !info.Policy.Advantage {
				fmt.Fprint(w, ", golden point at deuce")
			}
			fmt.Fprintln(w)
		case match.FamilyRally:
			serving := "rally scoring"
			if info.Policy.SideOut {
				serving = "side-out scoring"
			}
			fmt.Fprintf(w, "  best of %d games to %d, %s", 2*info.Policy.SetsToWin-1, info.Policy.PointsPerGame, serving)
			if info.Policy.WinByTwo {
				fmt.Fprint(w, ", win by two")
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
