//go:build js && wasm

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall/js"
)

// Request options the widget's fetches always carry: a CORS request that
// skips the HTTP cache and sends the full page URL as referrer, even across
// origins and to plain http services.
const (
	fetchMode           = "cors"
	fetchCache          = "no-cache"
	fetchReferrerPolicy = "unsafe-url"
)

// DefaultTransport returns the transport used when New is given no client.
func DefaultTransport() http.RoundTripper {
	return &FetchTransport{}
}

// FetchTransport is an http.RoundTripper over the browser fetch API. Unlike
// the net/http wasm transport it controls the cache and referrer policy.
type FetchTransport struct {
	// Fetch is the fetch function to call; the global fetch when unset.
	Fetch js.Value
}

// RoundTrip implements http.RoundTripper.
func (t *FetchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fetch := t.Fetch
	if fetch.IsUndefined() {
		fetch = js.Global().Get("fetch")
	}

	init, err := requestInit(req)
	if err != nil {
		return nil, err
	}

	ctx := req.Context()
	var abort js.Value
	if ac := js.Global().Get("AbortController"); !ac.IsUndefined() {
		abort = ac.New()
		init.Set("signal", abort.Get("signal"))
	}

	result, err := await(ctx, abort, fetch.Invoke(req.URL.String(), init))
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	collect := js.FuncOf(func(this js.Value, args []js.Value) any {
		header.Add(args[1].String(), args[0].String())
		return nil
	})
	result.Get("headers").Call("forEach", collect)
	collect.Release()

	buf, err := await(ctx, abort, result.Call("arrayBuffer"))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	arr := js.Global().Get("Uint8Array").New(buf)
	body := make([]byte, arr.Get("length").Int())
	js.CopyBytesToGo(body, arr)

	code := result.Get("status").Int()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

// requestInit builds the fetch RequestInit for req.
func requestInit(req *http.Request) (js.Value, error) {
	init := js.Global().Get("Object").New()
	init.Set("method", req.Method)
	init.Set("mode", fetchMode)
	init.Set("cache", fetchCache)
	init.Set("referrerPolicy", fetchReferrerPolicy)

	headers := js.Global().Get("Headers").New()
	for key, values := range req.Header {
		if strings.HasPrefix(strings.ToLower(key), "js.fetch:") {
			continue
		}
		for _, v := range values {
			headers.Call("append", key, v)
		}
	}
	init.Set("headers", headers)

	if req.Body != nil && req.Body != http.NoBody {
		data, err := io.ReadAll(req.Body)
		if cerr := req.Body.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return js.Value{}, fmt.Errorf("reading request body: %w", err)
		}
		if len(data) > 0 {
			arr := js.Global().Get("Uint8Array").New(len(data))
			js.CopyBytesToJS(arr, data)
			init.Set("body", arr)
		}
	}
	return init, nil
}

// await blocks until promise settles or ctx is done. On cancellation the
// request is aborted through abort, when available.
func await(ctx context.Context, abort, promise js.Value) (js.Value, error) {
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	// Both callbacks are released by whichever runs, since the promise
	// settles exactly once even after ctx is done.
	var onResolve, onReject js.Func
	onResolve = js.FuncOf(func(this js.Value, args []js.Value) any {
		onResolve.Release()
		onReject.Release()
		done <- settled{value: args[0]}
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) any {
		onResolve.Release()
		onReject.Release()
		done <- settled{err: fmt.Errorf("fetch failed: %w", js.Error{Value: args[0]})}
		return nil
	})
	promise.Call("then", onResolve, onReject)

	select {
	case s := <-done:
		return s.value, s.err
	case <-ctx.Done():
		if !abort.IsUndefined() {
			abort.Call("abort")
		}
		return js.Value{}, ctx.Err()
	}
}
