package main

import (
	"os"

	"github.com/rshade/sieve/internal/cli"
	"github.com/rshade/sieve/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

func main() {
	if err := run(); err != nil {
		// Cobra has already printed the error.
		os.Exit(1)
	}
}
