// Package cli defines the cobra command tree for pw, the parlante widget tool.
package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/parlante-widget/internal/client"
	"github.com/evcraddock/parlante-widget/internal/logging"
)

var (
	flagFormat   string
	flagServer   string
	flagClient   string
	flagPageURL  string
	flagLocale   string
	flagTimezone string
	flagTimeout  time.Duration
	flagVerbose  bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pw",
		Short: "Load and post comments through the parlante widget",
		Long: "Drives the parlante comment widget from the terminal: load a comment thread into a page, " +
			"submit comments, inspect threads and preview the browser build.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(flagVerbose)
			return loadDotEnv(".env")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagFormat, "format", "text", "output format (text|json)")
	pf.StringVar(&flagServer, "server", "", "comment service base URL (default: from env, config or http://localhost:8080)")
	pf.StringVar(&flagClient, "client", "", "client identifier of the comment thread")
	pf.StringVar(&flagPageURL, "page-url", "", "URL of the page the comments belong to")
	pf.StringVar(&flagLocale, "locale", "", "locale sent as Accepted-Language (default: from LANG)")
	pf.StringVar(&flagTimezone, "timezone", "", "IANA timezone sent as X-Timezone (default: from TZ)")
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second, "request timeout (0 disables)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newLoadCmd(),
		newSubmitCmd(),
		newCommentsCmd(),
		newCountCmd(),
		newStatusCmd(),
		newInitCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the comment service.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), &http.Client{
		Timeout:   flagTimeout,
		Transport: &logging.Transport{},
	})
}

// environment returns the request environment from flags, env and config.
func environment() client.Environment {
	return client.Environment{
		Locale:   flagLocale,
		Timezone: flagTimezone,
		PageURL:  getPageURL(),
	}.WithDefaults()
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
