// Package main provides the entry point for the fconv CLI tool.
package main

import (
	"os"

	"github.com/bjaus/fconv/cmd/fconv/app"
)

// Version information populated at build time.
var version = "dev"

func main() {
	a, err := app.New(version)
	if err != nil {
		app.ExitOnError(err)
	}
	if err := a.Execute(os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
