//go:build !(js && wasm)

package client

import (
	"net/http"
	"net/url"
)

// applyTransportPolicy mirrors what a browser does for the widget's fetches:
// caching disabled and the full page URL sent as referrer and origin.
func applyTransportPolicy(req *http.Request, env Environment) {
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	if env.PageURL == "" {
		return
	}
	req.Header.Set("Referer", env.PageURL)
	req.Header.Set("X-PageURL", env.PageURL)
	if origin := originOf(env.PageURL); origin != "" {
		req.Header.Set("Origin", origin)
	}
}

// originOf returns scheme://host of a URL, or "" if it has neither.
func originOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// DefaultTransport returns the transport used when New is given no client.
func DefaultTransport() http.RoundTripper {
	return http.DefaultTransport
}
