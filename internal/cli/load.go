package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/parlante-widget/internal/dom"
	"github.com/evcraddock/parlante-widget/internal/widget"
)

// defaultContainerID is the container created when no host page is given.
const defaultContainerID = "parlante-comments"

type loadOptions struct {
	page      string
	container string
	sanitize  bool
}

// loadReport is the JSON form of a load.
type loadReport struct {
	Status      int    `json:"status,omitempty"`
	SubmitBound bool   `json:"submit_bound"`
	Content     string `json:"content"`
	Error       string `json:"error,omitempty"`
}

func newLoadCmd() *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the comment thread into a page",
		Long: "Fetch the rendered comment thread and inject it into a container, as the widget does in the browser. " +
			"Prints the container content, or the whole page when --page is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.page, "page", "", "host page HTML file to load into")
	cmd.Flags().StringVar(&opts.container, "container", defaultContainerID, "id of the container element")
	cmd.Flags().BoolVar(&opts.sanitize, "sanitize", false, "sanitize the fetched fragment before injecting it")

	return cmd
}

func runLoad(cmd *cobra.Command, opts loadOptions) error {
	clientID, err := getClientID()
	if err != nil {
		return err
	}

	doc, err := openPage(opts.page, opts.container)
	if err != nil {
		return err
	}

	w := newWidget(clientID, doc, opts.sanitize)
	res := w.LoadComments(cmd.Context(), opts.container)

	out := cmd.OutOrStdout()
	if isJSON() {
		content, _ := doc.InnerHTML(opts.container)
		report := loadReport{Status: res.StatusCode, SubmitBound: res.SubmitBound, Content: content}
		if res.Err != nil {
			report.Error = res.Err.Error()
		}
		if err := printJSON(out, report); err != nil {
			return err
		}
		return res.Err
	}

	if opts.page != "" {
		if err := doc.Render(out); err != nil {
			return fmt.Errorf("rendering page: %w", err)
		}
		fmt.Fprintln(out)
		return res.Err
	}

	content, err := doc.InnerHTML(opts.container)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, content)
	return res.Err
}

// openPage parses the host page file, or returns a blank page holding the container.
func openPage(path, containerID string) (*dom.Document, error) {
	if path == "" {
		return dom.Blank(containerID), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer closeFile(f)

	return dom.Parse(f)
}

// newWidget builds a widget for the thread bound to doc.
func newWidget(clientID string, doc *dom.Document, sanitize bool) *widget.Widget {
	opts := []widget.Option{widget.WithEnvironment(environment())}
	if sanitize {
		opts = append(opts, widget.WithSanitizer(widget.NewSanitizer()))
	}
	return widget.New(newAPIClient(), clientID, doc, opts...)
}

// closeFile closes f, logging any error to stderr.
func closeFile(f io.Closer) {
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing file: %v\n", err)
	}
}
