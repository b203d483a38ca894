package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/sqlite-builder/internal/command"
	"github.com/cruciblehq/sqlite-builder/internal/paths"
)

// Compile target.
type Platform string

const (
	Windows Platform = "win"
	Linux   Platform = "linux"
)

// Parses a platform argument. Only "win" and "linux" are accepted.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case Windows, Linux:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrPlatform, s, Windows, Linux)
	}
}

// Name of the CMake build directory, relative to the source directory.
func (p Platform) BuildDir() string {
	if p == Windows {
		return "build_windows"
	}
	return "build_linux"
}

// Name of the build tool CMake generates files for.
func (p Platform) Tool() string {
	if p == Windows {
		return "ninja"
	}
	return "make"
}

// Human-readable platform name.
func (p Platform) String() string {
	if p == Windows {
		return "Windows"
	}
	return "Linux"
}

// Configure and build commands for the platform, run from the build
// directory.
//
// Windows builds use the Ninja generator and a Release configuration. Linux
// builds use the default generator followed by make.
func (p Platform) Commands() []command.Command {
	if p == Windows {
		return []command.Command{
			command.New("cmake", "-G", "Ninja", ".."),
			command.New("cmake", "--build", ".", "--config", "Release"),
		}
	}
	return []command.Command{
		command.New("cmake", ".."),
		command.New("make"),
	}
}

// Compiles the CMake project in src for the platform.
//
// The build directory is created if it does not exist and reused if it does.
// Returns the path of the build directory.
func Compile(ctx context.Context, r command.Runner, src string, p Platform) (string, error) {
	dir := filepath.Join(src, p.BuildDir())

	slog.Info("compiling cmake file to "+p.String(), "dir", dir)

	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompile, err)
	}

	for _, c := range p.Commands() {
		if err := r.Run(ctx, c.In(dir)); err != nil {
			return "", fmt.Errorf("%w: %w", ErrCompile, err)
		}
	}

	return dir, nil
}
