// Package commandtest provides a [command.Runner] that records invocations
// instead of starting processes.
package commandtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/cruciblehq/sqlite-builder/internal/command"
)

// Records every command it is asked to run.
//
// Commands whose quoted line appears in Fail return the mapped error. When
// Hook is set it is called for each command before recording, which lets
// tests emulate side effects such as a tool writing files.
type Recorder struct {
	Fail map[string]error
	Hook func(command.Command) error

	mu   sync.Mutex
	cmds []command.Command
}

// Records c and returns its configured outcome.
func (r *Recorder) Run(ctx context.Context, c command.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.cmds = append(r.cmds, c)
	r.mu.Unlock()

	if r.Hook != nil {
		if err := r.Hook(c); err != nil {
			return err
		}
	}
	if err, ok := r.Fail[c.String()]; ok {
		return fmt.Errorf("%w: %w", command.ErrFailed, err)
	}
	return nil
}

// Returns the recorded commands in invocation order.
func (r *Recorder) Commands() []command.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]command.Command(nil), r.cmds...)
}

// Returns the recorded command lines in invocation order.
func (r *Recorder) Lines() []string {
	cmds := r.Commands()
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.String()
	}
	return lines
}
