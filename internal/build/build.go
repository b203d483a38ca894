package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cruciblehq/sqlite-builder/internal/paths"
	"github.com/cruciblehq/sqlite-builder/internal/runtime"
)

// Controls recipe execution.
type Options struct {
	Recipe    Recipe   // Recipe to execute.
	ID        string   // Container ID.
	Root      string   // Build context, for resolving copy sources.
	Output    string   // Host directory for the exported image and artifacts.
	Platform  string   // Target platform, e.g. "linux/amd64". Empty uses the host.
	Name      string   // Image reference recorded in the exported archive.
	Artifacts []string // Container paths copied to Output after the steps succeed.
}

// Returned after successful recipe execution.
type Result struct {
	Image  string // Path of the exported OCI archive.
	Output string // Directory holding the archive and the artifacts.
}

// Executes a recipe against the container runtime.
//
// A container is started from the recipe's base image and the steps are
// executed in order. The artifacts are then copied out, the container is
// stopped and its filesystem is exported as an OCI archive in the output
// directory. The container is always destroyed before returning.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	slog.Info("executing recipe",
		"from", opts.Recipe.From,
		"steps", len(opts.Recipe.Steps),
		"output", opts.Output,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	ctr, err := rt.StartContainer(ctx, opts.Recipe.From, opts.ID, opts.Platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	defer ctr.Destroy(context.WithoutCancel(ctx))

	if err := executeSteps(ctx, ctr, opts.Recipe.Steps, newStepState(), opts.Root); err != nil {
		return nil, err
	}

	for _, artifact := range opts.Artifacts {
		slog.Info("copying artifact", "path", artifact, "dest", opts.Output)
		if err := copyOut(ctx, ctr, artifact, opts.Output); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuild, err)
		}
	}

	if err := ctr.Stop(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	image, err := ctr.Export(ctx, opts.Output, runtime.ImageConfig{
		Name:       opts.Name,
		Cmd:        opts.Recipe.Cmd,
		WorkingDir: opts.Recipe.Workdir,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	return &Result{Image: image, Output: opts.Output}, nil
}
