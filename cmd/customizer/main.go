// Package main provides the entry point for the customizer CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/customizer/internal/cli"
)

// Set at build time via -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	os.Exit(cli.ExitCodeForError(err))
}
