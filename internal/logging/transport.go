package logging

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport is an http.RoundTripper that logs outgoing requests at debug level.
type Transport struct {
	// Base is the wrapped transport; http.DefaultTransport when nil.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		slog.DebugContext(req.Context(), "outgoing request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"duration", duration.String(),
			"error", err,
		)
		return nil, err
	}

	slog.DebugContext(req.Context(), "outgoing request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", duration.String(),
	)
	return resp, nil
}
