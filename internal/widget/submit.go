package widget

import (
	"context"
	"fmt"

	"github.com/evcraddock/parlante-widget/internal/comment"
)

// SubmitResult reports the outcome of SubmitComment.
type SubmitResult struct {
	// StatusCode is the service's HTTP status. 4xx and 5xx still count as sent.
	StatusCode int
	// Shared is true when this call joined a submission already in flight.
	Shared bool
	Err    error
}

// OK reports whether the comment was sent and its result state shown.
func (r SubmitResult) OK() bool {
	return r.Err == nil
}

// SubmitComment posts the author and content inputs to the service and
// shows the success or error container in place of the form. Calls that
// overlap an in-flight submission share its request and result.
func (w *Widget) SubmitComment(ctx context.Context) SubmitResult {
	v, _, shared := w.inflight.Do(w.clientID, func() (interface{}, error) {
		return w.submit(ctx), nil
	})
	res := v.(SubmitResult)
	res.Shared = shared
	return res
}

func (w *Widget) submit(ctx context.Context) SubmitResult {
	name, err := w.page.Value(w.ids.Author)
	if err != nil {
		return SubmitResult{Err: fmt.Errorf("%w: %w", ErrFormUnavailable, err)}
	}
	content, err := w.page.Value(w.ids.Content)
	if err != nil {
		return SubmitResult{Err: fmt.Errorf("%w: %w", ErrFormUnavailable, err)}
	}

	sub := comment.Submission{Name: name, Content: content}
	resp, err := w.client.PostComment(ctx, w.clientID, w.env, sub)
	if err != nil {
		w.logger.DebugContext(ctx, "submitting comment failed", "client", w.clientID, "error", err)
		res := SubmitResult{Err: fmt.Errorf("%w: %w", ErrSubmitFailed, err)}
		if serr := w.showResult(w.ids.Error); serr != nil {
			res.Err = fmt.Errorf("%w (showing error state: %w)", res.Err, serr)
		}
		return res
	}

	w.logger.DebugContext(ctx, "comment submitted", "client", w.clientID, "status", resp.StatusCode)
	res := SubmitResult{StatusCode: resp.StatusCode}
	if serr := w.showResult(w.ids.Success); serr != nil {
		res.Err = fmt.Errorf("showing success state: %w", serr)
	}
	return res
}

// showResult hides the form and shows the given result container.
func (w *Widget) showResult(id string) error {
	if err := w.page.SetDisplay(w.ids.Form, DisplayNone); err != nil {
		return err
	}
	return w.page.SetDisplay(id, DisplayBlock)
}
