package cli

import (
	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments",
		Short: "List comments of the thread",
		Long:  "List the published comments of the page given by --page-url, using the service's JSON listing.",
		Args:  cobra.NoArgs,
		RunE:  runComments,
	}
}

func runComments(cmd *cobra.Command, args []string) error {
	clientID, err := getClientID()
	if err != nil {
		return err
	}

	env := environment()
	thread, err := newAPIClient().ListComments(cmd.Context(), clientID, env)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), thread)
	}

	printCommentList(cmd.OutOrStdout(), thread, env.Timezone)
	return nil
}
