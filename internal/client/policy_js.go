//go:build js && wasm

package client

import "net/http"

// applyTransportPolicy adds the page URL for thread scoping. Caching, CORS
// and referrer behavior are fetch options set by FetchTransport; Origin and
// Referer themselves belong to the browser.
func applyTransportPolicy(req *http.Request, env Environment) {
	if env.PageURL != "" {
		req.Header.Set("X-PageURL", env.PageURL)
	}
}
