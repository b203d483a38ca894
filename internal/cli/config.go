package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// Loads a YAML configuration file as a kong resolver.
//
// Keys are flag names, with dashes or underscores. Flags of a command may
// also be nested under the command name, which takes precedence over the
// top level. A flag whose environment variable is set is left to the
// environment:
//
//	debug: true
//	build:
//	  engine: containerd
//	  output: /var/lib/sqlite-builder
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if fromEnv(flag) {
			return nil, nil
		}
		if parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			return v, nil
		}
		return nil, nil
	}
	return resolver, nil
}

// Whether any of the flag's environment variables is set.
func fromEnv(flag *kong.Flag) bool {
	for _, env := range flag.Envs {
		if _, ok := os.LookupEnv(env); ok {
			return true
		}
	}
	return false
}

// Finds name in m and renders it as a flag value.
func lookup(m map[string]any, name string) (any, bool) {
	v, ok := m[name]
	if !ok {
		v, ok = m[strings.ReplaceAll(name, "-", "_")]
	}
	if !ok || v == nil {
		return nil, false
	}

	switch v := v.(type) {
	case map[string]any:
		return nil, false
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		return strings.Join(items, ","), true
	default:
		return fmt.Sprint(v), true
	}
}
