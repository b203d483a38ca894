package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cruciblehq/sqlite-builder/internal/runtime"
)

// The container operations a recipe needs. Implemented by
// [*runtime.Container].
type container interface {
	Exec(ctx context.Context, shell, command string, env []string, workdir string) (*runtime.ExecResult, error)
	MkdirAll(ctx context.Context, dir string) error
	CopyTo(ctx context.Context, r io.Reader, destDir string) error
	CopyFrom(ctx context.Context, w io.Writer, path string) error
}

// Executes steps in order, stopping at the first failure.
func executeSteps(ctx context.Context, ctr container, steps []Step, state *stepState, buildCtx string) error {
	for i, step := range steps {
		if err := executeStep(ctx, ctr, step, state, buildCtx); err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrBuild, i+1, err)
		}
	}
	return nil
}

// Executes an operation step, or records a standalone modifier step.
func executeStep(ctx context.Context, ctr container, step Step, state *stepState, buildCtx string) error {
	if step.Run == "" && step.Copy == "" {
		state.apply(step)
		return nil
	}

	resolved := state.resolve(step)

	if resolved.workdir != "" {
		if err := ctr.MkdirAll(ctx, resolved.workdir); err != nil {
			return err
		}
	}

	if step.Copy != "" {
		return executeCopy(ctx, ctr, step.Copy, resolved.workdir, buildCtx)
	}

	slog.Info("run", "command", step.Run)
	result, err := ctr.Exec(ctx, resolved.shell, step.Run, resolved.environ(), resolved.workdir)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: %q exited with code %d: %s", ErrCommandFailed, step.Run, result.ExitCode, result.Stderr)
	}
	slog.Debug("run finished", "command", step.Run, "stdout", result.Stdout)
	return nil
}
