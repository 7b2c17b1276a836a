// Package main is the entry point for the FlavorMap server.
// Its sole responsibility is handing control to the command tree.
// No business logic belongs here.
package main

import (
	"context"
	"os"

	"github.com/rc397/FlavorMap/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
