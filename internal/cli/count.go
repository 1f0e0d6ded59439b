package cli

import (
	"github.com/spf13/cobra"
)

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <page-url>...",
		Short: "Count comments on pages",
		Long:  "Show how many comments each of the given pages has.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCount,
	}
}

func runCount(cmd *cobra.Command, args []string) error {
	clientID, err := getClientID()
	if err != nil {
		return err
	}

	counts, err := newAPIClient().CountComments(cmd.Context(), clientID, environment(), args)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), counts)
	}
	return printCountTable(cmd.OutOrStdout(), counts)
}
