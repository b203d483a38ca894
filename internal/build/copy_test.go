package build

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseCopy(t *testing.T) {
	tests := []struct {
		in, workdir string
		src, dest   string
		wantErr     bool
	}{
		{in: ". .", workdir: "/app", src: ".", dest: "/app"},
		{in: "sqlite3.c src/", workdir: "/app", src: "sqlite3.c", dest: "/app/src"},
		{in: "a /opt/a", src: "a", dest: "/opt/a"},
		{in: "a b", wantErr: true},
		{in: "a", workdir: "/app", wantErr: true},
		{in: "a b c", workdir: "/app", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			src, dest, err := parseCopy(tt.in, tt.workdir)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseCopy(%q) succeeded", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCopy(%q): %v", tt.in, err)
			}
			if src != tt.src || dest != tt.dest {
				t.Fatalf("parseCopy(%q) = %q, %q; want %q, %q", tt.in, src, dest, tt.src, tt.dest)
			}
		})
	}
}

func TestTarRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "build_linux"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "build_linux", "libsqlite3.a"), []byte("archive"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sqlite3.h"), []byte("header"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirToTar(tw, src, "app"); err != nil {
		t.Fatalf("writeDirToTar: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	var names []string
	tr := tar.NewReader(bytes.NewReader(buf.Bytes()))
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		names = append(names, hdr.Name)
	}
	want := []string{"app/", "app/build_linux/", "app/build_linux/libsqlite3.a", "app/sqlite3.h"}
	if !slices.Equal(names, want) {
		t.Fatalf("entries = %v, want %v", names, want)
	}

	dest := t.TempDir()
	if err := extractTar(&buf, dest); err != nil {
		t.Fatalf("extractTar: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dest, "app", "build_linux", "libsqlite3.a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "archive" {
		t.Fatalf("libsqlite3.a = %q", got)
	}
}

func TestStepStateModifiers(t *testing.T) {
	s := newStepState()
	s.apply(Step{Workdir: "/app", Env: map[string]string{"B": "2", "A": "1"}})

	r := s.resolve(Step{Shell: "/bin/bash", Env: map[string]string{"C": "3"}})
	if r.shell != "/bin/bash" || r.workdir != "/app" {
		t.Fatalf("resolved = %+v", r)
	}
	if !slices.Equal(r.environ(), []string{"A=1", "B=2", "C=3"}) {
		t.Fatalf("resolved env = %v", r.environ())
	}

	if s.shell != defaultShell {
		t.Fatalf("resolve modified the state shell: %q", s.shell)
	}
	if _, ok := s.env["C"]; ok {
		t.Fatal("resolve modified the state env")
	}
}
