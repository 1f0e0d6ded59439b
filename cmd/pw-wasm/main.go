//go:build js && wasm

// Package main builds the browser widget. It registers
// parlanteLoadComments(url, clientID, containerID) and
// parlanteSubmitComment(url, clientID) on the global object; each returns a
// Promise that resolves once the request has finished.
package main

import (
	"context"
	"syscall/js"

	"github.com/evcraddock/parlante-widget/internal/client"
	"github.com/evcraddock/parlante-widget/internal/jsdom"
	"github.com/evcraddock/parlante-widget/internal/logging"
	"github.com/evcraddock/parlante-widget/internal/widget"
)

var page = jsdom.New()

func main() {
	logging.Setup(false)

	js.Global().Set("parlanteLoadComments", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 3 {
			return rejected("parlanteLoadComments(url, clientID, containerID)")
		}
		w := newWidget(args[0].String(), args[1].String())
		containerID := args[2].String()
		return promise(func() {
			w.LoadComments(context.Background(), containerID)
		})
	}))

	js.Global().Set("parlanteSubmitComment", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return rejected("parlanteSubmitComment(url, clientID)")
		}
		w := newWidget(args[0].String(), args[1].String())
		return promise(func() {
			w.SubmitComment(context.Background())
		})
	}))

	select {}
}

func newWidget(serviceURL, clientID string) *widget.Widget {
	c := client.New(serviceURL, nil)
	return widget.New(c, clientID, page, widget.WithEnvironment(jsdom.Environment()))
}

// promise runs fn on a goroutine and resolves the returned Promise when it ends.
func promise(fn func()) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve := args[0]
		go func() {
			defer executor.Release()
			fn()
			resolve.Invoke()
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

func rejected(usage string) js.Value {
	err := js.Global().Get("Error").New("usage: " + usage)
	return js.Global().Get("Promise").Call("reject", err)
}
