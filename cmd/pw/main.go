// Package main is the entry point for pw, the parlante widget CLI.
package main

import (
	"fmt"
	"os"

	"github.com/evcraddock/parlante-widget/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
