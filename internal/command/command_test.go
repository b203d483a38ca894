package command

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{
			name: "single word",
			line: "make",
			want: Command{Name: "make"},
		},
		{
			name: "arguments",
			line: "apt install cmake -y",
			want: Command{Name: "apt", Args: []string{"install", "cmake", "-y"}},
		},
		{
			name: "quoted argument",
			line: `docker run --name "sqlite container"`,
			want: Command{Name: "docker", Args: []string{"run", "--name", "sqlite container"}},
		},
		{
			name:    "empty",
			line:    "   ",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			line:    `echo "oops`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("err = %v, want ErrParse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want.String() {
				t.Fatalf("Parse(%q) = %q, want %q", tt.line, got.String(), tt.want.String())
			}
		})
	}
}

func TestString(t *testing.T) {
	c := New("cmake", "-G", "Unix Makefiles", "..")
	if got, want := c.String(), `cmake -G 'Unix Makefiles' ..`; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestIn(t *testing.T) {
	c := New("make")
	d := c.In("build_linux")
	if c.Dir != "" {
		t.Fatal("In mutated the receiver")
	}
	if d.Dir != "build_linux" {
		t.Fatalf("Dir = %q, want build_linux", d.Dir)
	}
}

func TestExecRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var out bytes.Buffer
	r := &Exec{Stdout: &out}
	if err := r.Run(context.Background(), New("sh", "-c", "echo hello")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "hello\n" {
		t.Fatalf("stdout = %q, want %q", out.String(), "hello\n")
	}
}

func TestExecRunExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	err := (&Exec{}).Run(context.Background(), New("sh", "-c", "exit 3"))
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("err = %v, want ErrFailed", err)
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Fatalf("Code = %d, want 3", exitErr.Code)
	}
}

func TestExecRunMissingBinary(t *testing.T) {
	err := (&Exec{}).Run(context.Background(), New("sqlite-builder-no-such-binary"))
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("err = %v, want ErrFailed", err)
	}
}

func TestSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := &Exec{}
	if !Succeeds(context.Background(), r, New("sh", "-c", "echo noise; true")) {
		t.Fatal("Succeeds = false for a zero exit")
	}
	if Succeeds(context.Background(), r, New("sh", "-c", "false")) {
		t.Fatal("Succeeds = true for a non-zero exit")
	}
}
