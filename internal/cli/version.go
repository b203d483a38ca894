package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cruciblehq/sqlite-builder/internal"
)

// Destination of command output meant for the user rather than the log.
var stdout io.Writer = os.Stdout

// Represents the 'sqlite-builder version' command.
type VersionCmd struct {
	Short bool `short:"s" help:"Print the release version only."`
}

// Executes the version command.
//
// Prints "<name> <version string>", or the bare release version with
// --short.
func (c *VersionCmd) Run(ctx context.Context) error {
	if c.Short {
		_, err := fmt.Fprintln(stdout, internal.Version())
		return err
	}
	_, err := fmt.Fprintln(stdout, internal.Name, internal.VersionString())
	return err
}
