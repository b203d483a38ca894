package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/sqlite-builder/internal/command"
	"github.com/cruciblehq/sqlite-builder/internal/deps"
	"github.com/cruciblehq/sqlite-builder/internal/fetch"
	"github.com/cruciblehq/sqlite-builder/internal/paths"
	"github.com/cruciblehq/sqlite-builder/internal/scaffold"
	"github.com/cruciblehq/sqlite-builder/internal/toolchain"
	"github.com/cruciblehq/sqlite-builder/internal/vm"
)

// Directory, inside the working directory, the amalgamation is unpacked to.
const SourceDir = "sqlite_build"

// Builds and runs the container image from a prepared source tree.
//
// Implemented by [*docker.Engine] and [*build.Engine].
type Engine interface {
	Build(ctx context.Context, src string, img scaffold.Image) error
	Run(ctx context.Context) error
}

// Configures a job.
type Options struct {
	WorkDir      string             // Directory the source tree is unpacked into.
	Platform     toolchain.Platform // Compile target.
	SourceURL    string             // Amalgamation archive. Empty uses [fetch.AmalgamationURL].
	SHA3         string             // Optional SHA3-256 of the archive, hex encoded.
	ISOURL       string             // Installer ISO for the VM. Empty uses [fetch.CentOSISOURL].
	VM           bool               // Provision the VirtualBox VM.
	RunContainer bool               // Build and run the container image.
	SkipCheck    bool               // Skip the dependency probes.
	InstallDeps  bool               // Install CMake through apt before building.
	Image        scaffold.Image     // Container image. Zero uses [scaffold.DefaultImage].

	Runner  command.Runner // Runs external tools. Required.
	Fetcher *fetch.Fetcher // Downloads archives. Nil uses a default fetcher.
	Engine  Engine         // Container backend. Required when RunContainer is set.
}

// Implemented by engines that need host tools, so the dependency check can
// probe for them.
type dependent interface {
	Dependencies() []deps.Dependency
}

type step struct {
	name string
	run  func(context.Context) error
}

// Runs the job described by opts.
//
// Returns the path of the unpacked source tree, which holds the generated
// files and the native build directory.
func Run(ctx context.Context, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	opts.defaults()

	j := &job{Options: opts, src: filepath.Join(opts.WorkDir, SourceDir)}

	slog.Info("starting the job", "platform", opts.Platform, "workdir", opts.WorkDir)

	for _, s := range j.steps() {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrJob, s.name, err)
		}
		if err := s.run(ctx); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrJob, s.name, err)
		}
	}

	slog.Info("job finished", "source", j.src)
	return j.src, nil
}

func (o *Options) validate() error {
	if o.Runner == nil {
		return fmt.Errorf("%w: no command runner", ErrOptions)
	}
	if _, err := toolchain.ParsePlatform(string(o.Platform)); err != nil {
		return fmt.Errorf("%w: %w", ErrOptions, err)
	}
	if o.RunContainer && o.Engine == nil {
		return fmt.Errorf("%w: container requested without an engine", ErrOptions)
	}
	return nil
}

func (o *Options) defaults() {
	if o.WorkDir == "" {
		o.WorkDir = "."
	}
	if o.SourceURL == "" {
		o.SourceURL = fetch.AmalgamationURL
	}
	if o.ISOURL == "" {
		o.ISOURL = fetch.CentOSISOURL
	}
	if o.Image.Base == "" {
		o.Image = scaffold.DefaultImage()
	}
	if o.Fetcher == nil {
		o.Fetcher = &fetch.Fetcher{}
	}
}

type job struct {
	Options
	src string
}

func (j *job) steps() []step {
	steps := []step{
		{"check", j.check},
		{"download", j.download},
		{"cmakelists", j.cmakeLists},
		{"compile", j.compile},
		{"dockerfile", j.dockerfile},
	}
	if j.VM {
		steps = append(steps, step{"vm", j.provision})
	}
	if j.RunContainer {
		steps = append(steps, step{"container", j.container})
	}
	return steps
}

func (j *job) check(ctx context.Context) error {
	if j.InstallDeps {
		deps.InstallCMake(ctx, j.Runner)
	}
	if j.SkipCheck {
		return nil
	}

	list := deps.Toolchain(j.Platform.Tool())
	if d, ok := j.Engine.(dependent); ok && j.RunContainer {
		list = append(list, d.Dependencies()...)
	}
	if j.VM {
		list = append(list, deps.VirtualBox)
	}

	if missing := deps.Check(ctx, j.Runner, list).Missing(); len(missing) > 0 {
		slog.Warn("continuing with missing dependencies", "missing", missing)
	}
	return nil
}

func (j *job) download(ctx context.Context) error {
	slog.Info("downloading sqlite", "url", j.SourceURL)

	archive, err := j.Fetcher.Fetch(ctx, j.SourceURL, j.SHA3)
	if err != nil {
		return err
	}

	if _, err := fetch.Unpack(ctx, archive, j.WorkDir, SourceDir); err != nil {
		return err
	}

	// Earlier releases downloaded the archive into the working directory.
	stale := filepath.Join(j.WorkDir, fetch.FileName(j.SourceURL))
	if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not remove archive", "path", stale, "error", err)
	}
	return nil
}

func (j *job) cmakeLists(ctx context.Context) error {
	slog.Info("creating CMakeLists.txt")
	_, err := scaffold.WriteCMakeLists(j.src)
	return err
}

func (j *job) compile(ctx context.Context) error {
	dir, err := toolchain.Compile(ctx, j.Runner, j.src, j.Platform)
	if err != nil {
		return err
	}
	slog.Info("compiled", "dir", dir)
	return nil
}

func (j *job) dockerfile(ctx context.Context) error {
	slog.Info("creating Dockerfile")
	if _, err := scaffold.WriteDockerfile(j.src, j.Image); err != nil {
		return err
	}
	_, err := scaffold.WriteDockerignore(j.src, j.Image)
	return err
}

func (j *job) provision(ctx context.Context) error {
	slog.Info("creating virtual machine")

	iso, err := j.Fetcher.Fetch(ctx, j.ISOURL, "")
	if err != nil {
		return err
	}
	return vm.Provision(ctx, j.Runner, j.WorkDir, vm.DefaultOptions(iso))
}

func (j *job) container(ctx context.Context) error {
	slog.Info("running docker container")

	// The image's build directory must exist even when the host built for
	// another platform; .dockerignore keeps only the empty directory.
	if err := os.MkdirAll(filepath.Join(j.src, j.Image.BuildDir), paths.DefaultDirMode); err != nil {
		return err
	}

	if err := j.Engine.Build(ctx, j.src, j.Image); err != nil {
		return err
	}
	return j.Engine.Run(ctx)
}
