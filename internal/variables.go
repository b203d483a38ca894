package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// Name of the binary, used for logging groups, paths and env prefixes.
	Name = "sqlite-builder"

	// Placeholder for a linker variable that was never set.
	undefined = "(undefined)"

	// Version string reported by builds made outside the release pipeline.
	localBuild = "(local)"

	// Stage name that is omitted from version strings.
	releaseStage = "main"
)

var (
	version   = "" // Release version, e.g. "0.3.1".
	stage     = "" // Branch the release was cut from.
	gitCommit = "" // Abbreviated commit hash.

	rawQuiet   = "false" // Quiet mode default.
	rawDebug   = "false" // Debug mode default.
	rawVerbose = "false" // Verbose mode default.
)

// Returns the release version without any "v" prefix, or "(undefined)".
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(v, "v")
}

// Returns the release stage, or "(undefined)".
func Stage() string {
	s := strings.ToLower(strings.TrimSpace(stage))
	if s == "" {
		return undefined
	}
	return s
}

// Returns the commit hash, or "(undefined)".
func GitCommit() string {
	if c := strings.TrimSpace(gitCommit); c != "" {
		return c
	}
	return undefined
}

// Whether the binary was built without release linker flags.
func IsLocal() bool {
	for _, v := range []string{version, gitCommit, stage} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Returns "<version>[+<stage>] <commit> [<os>/<arch>]", or "(local)".
func VersionString() string {
	if IsLocal() {
		return localBuild
	}

	suffix := ""
	if s := Stage(); s != releaseStage {
		suffix = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s/%s]", Version(), suffix, GitCommit(), runtime.GOOS, runtime.GOARCH)
}
