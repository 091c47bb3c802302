package main

import (
	"os"

	"github.com/rebelice/datalist/internal/cli"
)

// Version is injected at build time
var Version = "dev"

func main() {
	cli.Version = Version
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
