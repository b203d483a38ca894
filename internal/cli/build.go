package cli

import (
	"context"
	"fmt"

	"github.com/cruciblehq/sqlite-builder/internal/build"
	"github.com/cruciblehq/sqlite-builder/internal/command"
	"github.com/cruciblehq/sqlite-builder/internal/docker"
	"github.com/cruciblehq/sqlite-builder/internal/fetch"
	"github.com/cruciblehq/sqlite-builder/internal/job"
	"github.com/cruciblehq/sqlite-builder/internal/runtime"
	"github.com/cruciblehq/sqlite-builder/internal/toolchain"
)

// Container backends selectable with --engine.
const (
	engineDocker     = "docker"
	engineContainerd = "containerd"
)

// Represents the 'sqlite-builder build' command.
type BuildCmd struct {
	Platform string `arg:"" enum:"win,linux" help:"Target platform: win or linux."`

	RunDocker   bool   `short:"t" name:"run-docker" help:"Build and run the container image after compiling."`
	VM          bool   `name:"vm" help:"Provision the CentOS VirtualBox VM."`
	Engine      string `enum:"docker,containerd" default:"docker" help:"Container backend for --run-docker: docker or containerd."`
	Workdir     string `type:"path" default:"." help:"Directory the source tree is unpacked into." placeholder:"DIR"`
	SourceURL   string `name:"source-url" default:"${source_url}" help:"SQLite amalgamation archive." placeholder:"URL"`
	SHA3        string `name:"sha3" env:"SQLITE_BUILDER_SHA3" help:"Expected SHA3-256 of the archive, hex encoded." placeholder:"HEX"`
	ISOURL      string `name:"iso-url" default:"${iso_url}" help:"Installer ISO for --vm." placeholder:"URL"`
	InstallDeps bool   `name:"install-deps" help:"Install CMake through apt before building."`
	SkipCheck   bool   `name:"skip-check" help:"Skip the dependency probes."`

	ContainerdAddress   string `name:"containerd-address" default:"${containerd_address}" help:"Containerd socket for --engine=containerd." placeholder:"PATH"`
	ContainerdNamespace string `name:"containerd-namespace" default:"${containerd_namespace}" help:"Containerd namespace for --engine=containerd."`
	Output              string `type:"path" default:"dist" help:"Output directory for --engine=containerd." placeholder:"DIR"`
}

// Executes the build command.
func (c *BuildCmd) Run(ctx context.Context) error {
	opts, err := c.options()
	if err != nil {
		return err
	}
	_, err = job.Run(ctx, opts)
	return err
}

// Translates the flags into job options.
func (c *BuildCmd) options() (job.Options, error) {
	platform, err := toolchain.ParsePlatform(c.Platform)
	if err != nil {
		return job.Options{}, err
	}

	runner := &command.Exec{}

	opts := job.Options{
		WorkDir:      c.Workdir,
		Platform:     platform,
		SourceURL:    c.SourceURL,
		SHA3:         c.SHA3,
		ISOURL:       c.ISOURL,
		VM:           c.VM,
		RunContainer: c.RunDocker,
		SkipCheck:    c.SkipCheck,
		InstallDeps:  c.InstallDeps,
		Runner:       runner,
		Fetcher:      &fetch.Fetcher{},
	}

	if c.RunDocker {
		opts.Engine, err = c.engine(runner)
		if err != nil {
			return job.Options{}, err
		}
	}
	return opts, nil
}

func (c *BuildCmd) engine(runner command.Runner) (job.Engine, error) {
	switch c.Engine {
	case engineDocker:
		return &docker.Engine{Runner: runner}, nil
	case engineContainerd:
		return &build.Engine{
			Runtime: runtime.Config{
				Address:   c.ContainerdAddress,
				Namespace: c.ContainerdNamespace,
			},
			Output: c.Output,
		}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", c.Engine)
	}
}
