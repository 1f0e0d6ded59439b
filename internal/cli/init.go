package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init --server <url> --client <id> [--page-url <url>]",
		Short: "Store the service URL and thread identifier",
		Long:  "Saves the given --server, --client and --page-url as defaults in ~/.config/pw/config.yaml.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, CLIConfig{
				ServerURL: flagServer,
				ClientID:  flagClient,
				PageURL:   flagPageURL,
			})
		},
	}
}

func runInit(cmd *cobra.Command, update CLIConfig) error {
	if update == (CLIConfig{}) {
		return fmt.Errorf("nothing to save: pass --server, --client or --page-url")
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	if update.ServerURL != "" {
		cfg.ServerURL = update.ServerURL
	}
	if update.ClientID != "" {
		cfg.ClientID = update.ClientID
	}
	if update.PageURL != "" {
		cfg.PageURL = update.PageURL
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	path, _ := configPath()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", path)
	return nil
}
