package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/parlante-widget/internal/dom"
	"github.com/evcraddock/parlante-widget/internal/widget"
)

type submitOptions struct {
	name      string
	content   string
	container string
}

// submitReport is the JSON form of a submission.
type submitReport struct {
	State string `json:"state"`
}

// Visible states of the comment form after a submission.
const (
	stateForm    = "form"
	stateSuccess = "success"
	stateError   = "error"
)

func newSubmitCmd() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   `submit --name "author" --content "text"`,
		Short: "Post a comment through the widget form",
		Long: "Load the thread, fill the author and comment inputs and click the submit button. " +
			"Reports which result the widget shows. Empty names and comments are sent as-is.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "author name")
	cmd.Flags().StringVar(&opts.content, "content", "", "comment text")
	cmd.Flags().StringVar(&opts.container, "container", defaultContainerID, "id of the container element")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts submitOptions) error {
	clientID, err := getClientID()
	if err != nil {
		return err
	}

	doc := dom.Blank(opts.container)
	w := newWidget(clientID, doc, false)

	res := w.LoadComments(cmd.Context(), opts.container)
	if res.Err != nil {
		return res.Err
	}
	if !res.SubmitBound {
		return fmt.Errorf("comment form not available (status %d)", res.StatusCode)
	}

	ids := w.ElementIDs()
	if err := doc.SetValue(ids.Author, opts.name); err != nil {
		return fmt.Errorf("filling author: %w", err)
	}
	if err := doc.SetValue(ids.Content, opts.content); err != nil {
		return fmt.Errorf("filling comment: %w", err)
	}
	if err := doc.Click(ids.Submit); err != nil {
		return err
	}

	state := visibleState(doc, ids)

	out := cmd.OutOrStdout()
	if isJSON() {
		if err := printJSON(out, submitReport{State: state}); err != nil {
			return err
		}
	} else {
		switch state {
		case stateSuccess:
			fmt.Fprintln(out, "✓ Comment sent.")
		case stateError:
			fmt.Fprintln(out, "✗ Error sending comment.")
		default:
			fmt.Fprintln(out, "Comment form unchanged.")
		}
	}

	if state == stateError {
		return widget.ErrSubmitFailed
	}
	return nil
}

// visibleState reports which of the form, success and error containers is showing.
func visibleState(doc *dom.Document, ids widget.ElementIDs) string {
	if d, _ := doc.Display(ids.Success); d == widget.DisplayBlock {
		return stateSuccess
	}
	if d, _ := doc.Display(ids.Error); d == widget.DisplayBlock {
		return stateError
	}
	return stateForm
}
