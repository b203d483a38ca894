package main

import (
	"log/slog"
	"os"

	"github.com/cruciblehq/sqlite-builder/internal"
	"github.com/cruciblehq/sqlite-builder/internal/cli"
	"github.com/cruciblehq/sqlite-builder/internal/logging"
)

// The entry point for sqlite-builder.
//
// Installs a logger seeded from build-time linker flags, logs startup
// information and executes the root command. Any error is logged and the
// process exits with status 1.
func main() {
	slog.SetDefault(logging.New(os.Stderr, logging.Defaults()))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("sqlite-builder is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
