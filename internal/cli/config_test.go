package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	values := map[string]any{
		"source_url": "https://example.com/a.zip",
		"debug":      true,
		"retries":    3,
		"tags":       []any{"a", "b"},
		"build":      map[string]any{"engine": "containerd"},
		"empty":      nil,
	}

	tests := []struct {
		name string
		want any
		ok   bool
	}{
		{"source-url", "https://example.com/a.zip", true},
		{"debug", "true", true},
		{"retries", "3", true},
		{"tags", "a,b", true},
		{"build", nil, false},
		{"empty", nil, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup(values, tt.name)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("lookup(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestYAMLEmpty(t *testing.T) {
	if _, err := YAML(strings.NewReader("")); err != nil {
		t.Fatalf("YAML(empty): %v", err)
	}
}

func TestYAMLInvalid(t *testing.T) {
	_, err := YAML(strings.NewReader("build: [unterminated"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}
