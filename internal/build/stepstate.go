package build

import (
	"maps"
	"slices"
)

// Shell used for run steps until a step sets another one.
const defaultShell = "/bin/sh"

// Modifiers accumulated while a recipe executes.
//
// Standalone modifier steps update the state through apply. Operations see
// their effective values through resolve, which leaves the state untouched.
type stepState struct {
	shell   string
	workdir string
	env     map[string]string
}

func newStepState() *stepState {
	return &stepState{
		shell: defaultShell,
		env:   make(map[string]string),
	}
}

// Persists the non-empty modifier fields of step.
func (s *stepState) apply(step Step) {
	if step.Shell != "" {
		s.shell = step.Shell
	}
	if step.Workdir != "" {
		s.workdir = step.Workdir
	}
	maps.Copy(s.env, step.Env)
}

// Returns a copy of the state with the modifiers of step overlaid.
func (s *stepState) resolve(step Step) *stepState {
	resolved := &stepState{
		shell:   s.shell,
		workdir: s.workdir,
		env:     maps.Clone(s.env),
	}
	resolved.apply(step)
	return resolved
}

// Environment as sorted "key=value" entries.
func (s *stepState) environ() []string {
	env := make([]string, 0, len(s.env))
	for _, k := range slices.Sorted(maps.Keys(s.env)) {
		env = append(env, k+"="+s.env[k])
	}
	return env
}
