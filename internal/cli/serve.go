package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/parlante-widget/internal/preview"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		assets    string
		container string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a preview page for the browser widget",
		Long: "Start an HTTP server with a host page that loads the wasm widget from --assets " +
			"(widget.wasm and wasm_exec.js) and points it at the configured thread.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, assets, container)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "port to listen on")
	cmd.Flags().StringVar(&assets, "assets", "dist", "directory with widget.wasm and wasm_exec.js")
	cmd.Flags().StringVar(&container, "container", defaultContainerID, "id of the comments container")

	return cmd
}

func runServe(port int, assets, container string) error {
	clientID, err := getClientID()
	if err != nil {
		return err
	}

	srv, err := preview.NewServer(preview.Config{
		ServerURL:   getServerURL(),
		ClientID:    clientID,
		ContainerID: container,
		AssetsDir:   assets,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(port)
}
