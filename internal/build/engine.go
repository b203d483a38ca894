package build

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/cruciblehq/sqlite-builder/internal/deps"
	"github.com/cruciblehq/sqlite-builder/internal/runtime"
	"github.com/cruciblehq/sqlite-builder/internal/scaffold"
)

const (

	// Reference recorded in exported archives when none is configured.
	DefaultImageName = "docker.io/library/sqlite_builder:latest"

	// Container ID used for the build container.
	containerID = "sqlite-builder"
)

// Packages the SQLite build with containerd instead of the docker CLI.
//
// The Dockerfile's steps are replayed in a containerd container. The
// compiled build directory and an OCI archive of the resulting image are
// written to Output.
type Engine struct {
	Runtime  runtime.Config // Containerd connection settings.
	Output   string         // Output directory. Relative paths are resolved against the working directory.
	Platform string         // Target platform. Empty uses the host.
	Name     string         // Image reference. Empty uses [DefaultImageName].

	result *Result
}

// Builds img with src as the build context.
func (e *Engine) Build(ctx context.Context, src string, img scaffold.Image) error {
	output, err := filepath.Abs(e.Output)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	rt, err := runtime.New(e.Runtime)
	if err != nil {
		return err
	}
	defer rt.Close()

	name := e.Name
	if name == "" {
		name = DefaultImageName
	}

	result, err := Run(ctx, rt, Options{
		Recipe:    FromImage(img),
		ID:        containerID,
		Root:      src,
		Output:    output,
		Platform:  e.Platform,
		Name:      name,
		Artifacts: []string{path.Join(img.Workdir, img.BuildDir)},
	})
	if err != nil {
		return err
	}

	e.result = result
	return nil
}

// Tools the engine needs on the host: the containerd socket.
func (e *Engine) Dependencies() []deps.Dependency {
	address := e.Runtime.Address
	if address == "" {
		address = runtime.DefaultAddress
	}
	return []deps.Dependency{deps.Containerd(address)}
}

// Reports where the exported image was written.
//
// Interactive containers are only supported through the docker engine; the
// archive can be loaded with "docker load" or "ctr image import".
func (e *Engine) Run(ctx context.Context) error {
	if e.result == nil {
		return fmt.Errorf("%w: image has not been built", ErrBuild)
	}
	slog.Warn("containerd engine does not start interactive containers",
		"image", e.result.Image,
		"hint", "docker load -i "+e.result.Image,
	)
	return nil
}
