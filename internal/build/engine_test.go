package build

import (
	"context"
	"errors"
	"testing"

	"github.com/cruciblehq/sqlite-builder/internal/runtime"
)

func TestEngineRunWithoutBuild(t *testing.T) {
	e := &Engine{Output: t.TempDir()}
	if err := e.Run(context.Background()); !errors.Is(err, ErrBuild) {
		t.Fatalf("Run() = %v, want ErrBuild", err)
	}
}

func TestEngineRunAfterBuild(t *testing.T) {
	e := &Engine{result: &Result{Image: "dist/image.tar", Output: "dist"}}
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run(): %v", err)
	}
}

func TestEngineDependencies(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"", "test -S /run/containerd/containerd.sock"},
		{"/tmp/ctr.sock", "test -S /tmp/ctr.sock"},
	}

	for _, tt := range tests {
		e := &Engine{Runtime: runtime.Config{Address: tt.address}}
		got := e.Dependencies()
		if len(got) != 1 || got[0].Name != "containerd" || got[0].Probe != tt.want {
			t.Errorf("Dependencies() with address %q = %+v, want probe %q", tt.address, got, tt.want)
		}
	}
}
