package main

import (
	"os"

	"github.com/pixelvec/pixelvec/internal/cli"
)

// Version is set by ldflags during build.
var Version = "dev"

func main() {
	os.Exit(cli.Execute(Version))
}
