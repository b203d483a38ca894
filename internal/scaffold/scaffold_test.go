package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const wantCMakeLists = `cmake_minimum_required(VERSION 3.10)
project(SQLite)
set(SOURCE_FILES sqlite3.c)
add_library(sqlite3 SHARED ${SOURCE_FILES})
target_include_directories(sqlite3 PUBLIC ${CMAKE_CURRENT_SOURCE_DIR})
if(WIN32)
    set_target_properties(sqlite3 PROPERTIES OUTPUT_NAME sqlite3dll)
endif()`

const wantDockerfile = `FROM gcc:latest
WORKDIR /app
COPY . .
RUN cd build_linux && cmake .. && make
CMD ["bash"]`

func TestWriteCMakeLists(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteCMakeLists(dir)
	if err != nil {
		t.Fatalf("WriteCMakeLists: %v", err)
	}
	if path != filepath.Join(dir, "CMakeLists.txt") {
		t.Fatalf("path = %q", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantCMakeLists {
		t.Fatalf("CMakeLists.txt =\n%s\nwant\n%s", got, wantCMakeLists)
	}
}

func TestWriteDockerfile(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDockerfile(dir, DefaultImage())
	if err != nil {
		t.Fatalf("WriteDockerfile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantDockerfile {
		t.Fatalf("Dockerfile =\n%s\nwant\n%s", got, wantDockerfile)
	}
}

func TestRenderDockerfileCustomImage(t *testing.T) {
	got, err := RenderDockerfile(Image{
		Base:     "gcc:13",
		Workdir:  "/src",
		BuildDir: "out",
		Cmd:      []string{"sh", "-c", "ls && echo <done>"},
	})
	if err != nil {
		t.Fatalf("RenderDockerfile: %v", err)
	}

	want := `FROM gcc:13
WORKDIR /src
COPY . .
RUN cd out && cmake .. && make
CMD ["sh","-c","ls && echo <done>"]`
	if string(got) != want {
		t.Fatalf("Dockerfile =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteMissingDir(t *testing.T) {
	_, err := WriteCMakeLists(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("err = %v, want ErrWrite", err)
	}
}

func TestWriteDockerignore(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDockerignore(dir, DefaultImage())
	if err != nil {
		t.Fatalf("WriteDockerignore: %v", err)
	}
	if filepath.Base(path) != DockerignoreFile {
		t.Fatalf("path = %q", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "build_linux/*\nbuild_windows\n"; string(got) != want {
		t.Fatalf(".dockerignore = %q, want %q", got, want)
	}
}

func TestRenderDockerignoreCustomBuildDir(t *testing.T) {
	got := string(RenderDockerignore(Image{BuildDir: "out"}))
	if want := "build_linux\nbuild_windows\nout/*\n"; got != want {
		t.Fatalf(".dockerignore = %q, want %q", got, want)
	}
}
