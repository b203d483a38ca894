package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// An external program invocation.
//
// Nil streams fall back to the runner's defaults. Dir is the working
// directory of the process; an empty Dir inherits the caller's.
type Command struct {
	Name   string    // Program name or path.
	Args   []string  // Arguments, not including the program name.
	Dir    string    // Working directory.
	Env    []string  // Extra "KEY=value" entries appended to the inherited environment.
	Stdin  io.Reader // Standard input.
	Stdout io.Writer // Standard output.
	Stderr io.Writer // Standard error.
}

// Creates a command for the given program and arguments.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Parses a shell-style command line into a [Command].
//
// Quoting follows POSIX shell word splitting. No shell is involved when the
// command runs, so pipes, globs and variable expansion are not supported.
func Parse(line string) (Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(words) == 0 {
		return Command{}, fmt.Errorf("%w: empty command line", ErrParse)
	}
	return New(words[0], words[1:]...), nil
}

// Returns a copy of the command that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// Returns the command line, quoted so it can be pasted into a shell.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// Runs commands as child processes of the current process.
type Exec struct {
	Stdin  io.Reader // Default stdin. Nil means os.Stdin.
	Stdout io.Writer // Default stdout. Nil means os.Stdout.
	Stderr io.Writer // Default stderr. Nil means os.Stderr.
}

// Starts the command and waits for it to exit.
//
// A non-zero exit status is returned as an error wrapping [ErrFailed] and an
// [*ExitError] carrying the code. Cancelling ctx kills the process.
func (e *Exec) Run(ctx context.Context, c Command) error {
	slog.Debug("exec", "command", c.String(), "dir", c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = pickReader(c.Stdin, e.Stdin, os.Stdin)
	cmd.Stdout = pickWriter(c.Stdout, e.Stdout, os.Stdout)
	cmd.Stderr = pickWriter(c.Stderr, e.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %w", ErrFailed, &ExitError{Command: c.String(), Code: exitErr.ExitCode()})
		}
		return fmt.Errorf("%w: %s: %w", ErrFailed, c.String(), err)
	}
	return nil
}

// Whether running the command succeeds. Output is discarded.
func Succeeds(ctx context.Context, r Runner, c Command) bool {
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return r.Run(ctx, c) == nil
}

func pickReader(rs ...io.Reader) io.Reader {
	for _, r := range rs {
		if r != nil {
			return r
		}
	}
	return nil
}

func pickWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return nil
}
