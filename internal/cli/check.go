package cli

import (
	"context"
	"fmt"

	"github.com/cruciblehq/sqlite-builder/internal/command"
	"github.com/cruciblehq/sqlite-builder/internal/deps"
	"github.com/cruciblehq/sqlite-builder/internal/toolchain"
)

// Represents the 'sqlite-builder check' command.
type CheckCmd struct {
	Platform string `arg:"" optional:"" enum:"win,linux" default:"linux" help:"Platform whose build tool is probed."`
}

// Executes the check command.
//
// Prints one line per dependency. Missing tools are reported, never
// treated as an error.
func (c *CheckCmd) Run(ctx context.Context) error {
	platform, err := toolchain.ParsePlatform(c.Platform)
	if err != nil {
		return err
	}

	list := append(deps.Toolchain(platform.Tool()), deps.Docker, deps.VirtualBox)
	report := deps.Check(ctx, &command.Exec{}, list)

	for _, s := range report {
		state := "missing"
		if s.Installed {
			state = "ok"
		}
		fmt.Fprintf(stdout, "%-12s %s\n", s.Name, state)
	}
	return nil
}
