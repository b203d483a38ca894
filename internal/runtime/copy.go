package runtime

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Creates a directory inside the container, including parents.
func (c *Container) MkdirAll(ctx context.Context, dir string) error {
	res, err := c.ExecArgs(ctx, []string{"mkdir", "-p", dir})
	if err != nil {
		return err
	}
	return checkExit("mkdir", res.ExitCode, res.Stderr)
}

// Extracts the tar stream r into destDir inside the container.
func (c *Container) CopyTo(ctx context.Context, r io.Reader, destDir string) error {
	return c.mustExec(ctx, "tar extract", r, nil, "tar", "xf", "-", "-C", destDir)
}

// Writes the file or directory at p inside the container to w as a tar
// stream. Entries are rooted at the base name of p.
func (c *Container) CopyFrom(ctx context.Context, w io.Writer, p string) error {
	return c.mustExec(ctx, "tar archive", nil, w, "tar", "cf", "-", "-C", path.Dir(p), path.Base(p))
}

// Runs args inside the container, turning a non-zero exit code into an
// error described by desc.
func (c *Container) mustExec(ctx context.Context, desc string, stdin io.Reader, stdout io.Writer, args ...string) error {
	exitCode, stderr, err := c.execCommand(ctx, stdin, stdout, nil, "", args...)
	if err != nil {
		return err
	}
	return checkExit(desc, exitCode, stderr)
}

// Turns a non-zero exit code into an error described by desc.
func checkExit(desc string, exitCode int, stderr string) error {
	if exitCode != 0 {
		return fmt.Errorf("%w: %s exited with code %d: %s", ErrRuntime, desc, exitCode, strings.TrimSpace(stderr))
	}
	return nil
}
