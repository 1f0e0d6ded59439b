package widget

import (
	"context"
	"fmt"
)

// LoadResult reports the outcome of LoadComments.
type LoadResult struct {
	// StatusCode is the service's HTTP status. It does not affect rendering.
	StatusCode int
	// SubmitBound is true when the fragment's submit trigger was wired.
	SubmitBound bool
	Err         error
}

// OK reports whether the thread was fetched and rendered.
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// LoadComments fetches the rendered thread and injects it into the
// container. A transport failure leaves LoadFailedMessage in the container
// and binds nothing; any completed response, whatever its status, is
// rendered as returned.
func (w *Widget) LoadComments(ctx context.Context, containerID string) LoadResult {
	resp, err := w.client.FetchThreadHTML(ctx, w.clientID, w.env)
	if err != nil {
		w.logger.DebugContext(ctx, "loading comments failed",
			"client", w.clientID, "container", containerID, "error", err)
		res := LoadResult{Err: fmt.Errorf("%w: %w", ErrLoadFailed, err)}
		if perr := w.page.SetInnerHTML(containerID, LoadFailedMessage); perr != nil {
			res.Err = fmt.Errorf("%w (rendering failure message: %w)", res.Err, perr)
		}
		return res
	}

	content := resp.Body
	if w.sanitizer != nil {
		content = w.sanitizer.Sanitize(content)
	}
	if err := w.page.SetInnerHTML(containerID, content); err != nil {
		return LoadResult{StatusCode: resp.StatusCode, Err: fmt.Errorf("rendering comments: %w", err)}
	}

	// The handler outlives this call.
	submitCtx := context.WithoutCancel(ctx)
	if err := w.page.OnClick(w.ids.Submit, func() { w.SubmitComment(submitCtx) }); err != nil {
		w.logger.DebugContext(ctx, "comment fragment has no submit trigger",
			"client", w.clientID, "id", w.ids.Submit, "error", err)
		return LoadResult{StatusCode: resp.StatusCode}
	}

	w.logger.DebugContext(ctx, "comments loaded",
		"client", w.clientID, "status", resp.StatusCode, "bytes", len(resp.Body))
	return LoadResult{StatusCode: resp.StatusCode, SubmitBound: true}
}
