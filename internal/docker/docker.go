package docker

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cruciblehq/sqlite-builder/internal/command"
	"github.com/cruciblehq/sqlite-builder/internal/deps"
	"github.com/cruciblehq/sqlite-builder/internal/scaffold"
	"github.com/mattn/go-isatty"
)

const (

	// Default tag of the built image.
	DefaultTag = "sqlite_builder"

	// Default name of the container started from the image.
	DefaultContainer = "sqlite_container"
)

// Builds and runs the SQLite image through the docker CLI.
type Engine struct {
	Runner    command.Runner // Runs the docker CLI.
	Tag       string         // Image tag. Empty uses [DefaultTag].
	Container string         // Container name. Empty uses [DefaultContainer].

	// Reports whether stdin is a terminal. Nil checks os.Stdin.
	Terminal func() bool
}

// Builds the image from the Dockerfile in src, using src as the context.
//
// The Dockerfile must already exist; img is only used for logging.
func (e *Engine) Build(ctx context.Context, src string, img scaffold.Image) error {
	slog.Info("building docker image", "tag", e.tag(), "base", img.Base)

	if err := e.Runner.Run(ctx, command.New("docker", "build", "-t", e.tag(), ".").In(src)); err != nil {
		return fmt.Errorf("%w: %w", ErrDocker, err)
	}
	return nil
}

// Tools the engine needs on the host.
func (e *Engine) Dependencies() []deps.Dependency {
	return []deps.Dependency{deps.Docker}
}

// Runs the image interactively in a named container.
//
// The pseudo-terminal flag is only passed when stdin is a terminal, since
// docker refuses "-t" otherwise.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Runner.Run(ctx, e.runCommand()); err != nil {
		return fmt.Errorf("%w: %w", ErrDocker, err)
	}
	return nil
}

func (e *Engine) runCommand() command.Command {
	mode := "-i"
	if e.terminal() {
		mode = "-it"
	}
	return command.New("docker", "run", mode, "--name", e.container(), e.tag())
}

func (e *Engine) tag() string {
	if e.Tag == "" {
		return DefaultTag
	}
	return e.Tag
}

func (e *Engine) container() string {
	if e.Container == "" {
		return DefaultContainer
	}
	return e.Container
}

func (e *Engine) terminal() bool {
	if e.Terminal != nil {
		return e.Terminal()
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
