package deps

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/sqlite-builder/internal/command"
)

// Probe command that detects a Debian-style package manager.
const aptProbe = "apt --version"

// Installation command run when apt is available.
const cmakeInstall = "apt install cmake -y"

// A named tool and the command line that proves it is installed.
type Dependency struct {
	Name  string // Tool name, used in log output.
	Probe string // Shell-style command line that exits 0 when the tool works.
}

// Outcome of probing a single dependency.
type Status struct {
	Dependency
	Installed bool
}

// Outcome of a dependency check.
type Report []Status

// Whether every probed dependency is installed.
func (r Report) OK() bool {
	for _, s := range r {
		if !s.Installed {
			return false
		}
	}
	return true
}

// Names of the dependencies that are not installed.
func (r Report) Missing() []string {
	var missing []string
	for _, s := range r {
		if !s.Installed {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// Runs a probe and logs whether the dependency is installed.
//
// A malformed probe line counts as not installed.
func Probe(ctx context.Context, r command.Runner, dep Dependency) bool {
	cmd, err := command.Parse(dep.Probe)
	if err != nil {
		slog.Warn("invalid dependency probe", "dependency", dep.Name, "error", err)
		return false
	}

	if command.Succeeds(ctx, r, cmd) {
		slog.Info("dependency is installed", "dependency", dep.Name)
		return true
	}

	slog.Warn("dependency is not installed", "dependency", dep.Name, "probe", dep.Probe)
	return false
}

// Probes every dependency in order.
//
// Missing dependencies are logged and reported but never stop the check, so
// the caller always sees the full picture.
func Check(ctx context.Context, r command.Runner, list []Dependency) Report {
	report := make(Report, 0, len(list))
	for _, dep := range list {
		report = append(report, Status{Dependency: dep, Installed: Probe(ctx, r, dep)})
	}
	return report
}

// Installs CMake through apt when apt is present.
//
// Returns false without running anything when apt is not available, or when
// the installation command fails. Failures are logged, not returned.
func InstallCMake(ctx context.Context, r command.Runner) bool {
	if !Probe(ctx, r, Dependency{Name: "apt", Probe: aptProbe}) {
		return false
	}

	cmd, _ := command.Parse(cmakeInstall)
	if err := r.Run(ctx, cmd); err != nil {
		slog.Warn("cmake installation failed", "error", err)
		return false
	}

	slog.Info("cmake installed")
	return true
}
