package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the comment thread can be reached",
		Long:  "Shows the configured service and thread, then requests the rendered thread and reports the result.",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server:  %s\n", getServerURL())

	clientID, err := getClientID()
	if err != nil {
		fmt.Fprintln(out, "Client:  not configured")
		fmt.Fprintln(out, "\nRun 'pw init --client <id>' to configure.")
		return nil
	}
	fmt.Fprintf(out, "Client:  %s\n", clientID)

	env := environment()
	if env.PageURL != "" {
		fmt.Fprintf(out, "Page:    %s\n", env.PageURL)
	}
	fmt.Fprintf(out, "Locale:  %s (%s)\n", env.Locale, env.Timezone)

	resp, err := newAPIClient().FetchThreadHTML(cmd.Context(), clientID, env)
	if err != nil {
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(out, "Status:  ✓ thread available")
	case http.StatusForbidden:
		fmt.Fprintln(out, "Status:  ✗ forbidden (unknown client or page origin not allowed)")
	default:
		fmt.Fprintf(out, "Status:  ✗ unexpected response (%d)\n", resp.StatusCode)
	}

	return nil
}
