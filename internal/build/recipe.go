package build

import (
	"fmt"

	"github.com/cruciblehq/sqlite-builder/internal/scaffold"
)

// An ordered set of steps executed in a container started from From.
type Recipe struct {
	From    string   // Base image reference.
	Steps   []Step   // Steps, executed in order.
	Cmd     []string // Default command of the exported image.
	Workdir string   // Default working directory of the exported image.
}

// A single recipe step.
//
// A step with Run or Copy is an operation; its Shell, Workdir and Env apply
// to that operation only. A step with neither is a standalone modifier whose
// fields persist for all following steps.
type Step struct {
	Run     string            // Shell command.
	Copy    string            // "src dest", src relative to the build context.
	Workdir string            // Working directory inside the container.
	Shell   string            // Shell used for Run.
	Env     map[string]string // Environment variables.
}

// Derives the recipe equivalent to the Dockerfile generated for img.
//
// The build directory is recreated before building so a CMake cache left by
// a host build, which records host paths, does not leak into the container.
func FromImage(img scaffold.Image) Recipe {
	return Recipe{
		From:    img.Base,
		Cmd:     img.Cmd,
		Workdir: img.Workdir,
		Steps: []Step{
			{Workdir: img.Workdir},
			{Copy: ". ."},
			{Run: fmt.Sprintf("rm -rf %[1]s && mkdir -p %[1]s", img.BuildDir)},
			{Run: img.BuildCommand()},
		},
	}
}
