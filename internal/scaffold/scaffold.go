package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cruciblehq/sqlite-builder/internal/paths"
)

const (

	// Name of the generated CMake project file.
	CMakeListsFile = "CMakeLists.txt"

	// Name of the generated Dockerfile.
	DockerfileFile = "Dockerfile"

	// Name of the generated Docker ignore file.
	DockerignoreFile = ".dockerignore"
)

// Host build directories. Their CMake caches record host paths, so they are
// kept out of the image build context.
var hostBuildDirs = []string{"build_linux", "build_windows"}

// Builds sqlite3.c as a shared library. On Windows the output is renamed to
// sqlite3dll so it does not clash with the import library.
const cmakeLists = `cmake_minimum_required(VERSION 3.10)
project(SQLite)
set(SOURCE_FILES sqlite3.c)
add_library(sqlite3 SHARED ${SOURCE_FILES})
target_include_directories(sqlite3 PUBLIC ${CMAKE_CURRENT_SOURCE_DIR})
if(WIN32)
    set_target_properties(sqlite3 PROPERTIES OUTPUT_NAME sqlite3dll)
endif()`

var dockerfile = template.Must(template.New(DockerfileFile).Funcs(template.FuncMap{
	"json": toJSON,
}).Parse(`FROM {{ .Base }}
WORKDIR {{ .Workdir }}
COPY . .
RUN {{ .BuildCommand }}
CMD {{ json .Cmd }}`))

// Describes the image that compiles the library inside a container.
type Image struct {
	Base     string   // Base image reference.
	Workdir  string   // Directory the source tree is copied into.
	BuildDir string   // CMake build directory, relative to Workdir.
	Cmd      []string // Default command of the resulting image.
}

// Returns the image used by default: gcc:latest, building the source tree
// copied to /app in build_linux and dropping into bash.
func DefaultImage() Image {
	return Image{
		Base:     "gcc:latest",
		Workdir:  "/app",
		BuildDir: "build_linux",
		Cmd:      []string{"bash"},
	}
}

// Returns the shell command that configures and builds the library inside
// the image.
func (img Image) BuildCommand() string {
	return fmt.Sprintf("cd %s && cmake .. && make", img.BuildDir)
}

// Writes CMakeLists.txt into dir and returns its path.
func WriteCMakeLists(dir string) (string, error) {
	return write(dir, CMakeListsFile, []byte(cmakeLists))
}

// Renders the Dockerfile for img.
func RenderDockerfile(img Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := dockerfile.Execute(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return buf.Bytes(), nil
}

// Writes the Dockerfile for img into dir and returns its path.
func WriteDockerfile(dir string, img Image) (string, error) {
	content, err := RenderDockerfile(img)
	if err != nil {
		return "", err
	}
	return write(dir, DockerfileFile, content)
}

// Renders the .dockerignore for img.
//
// Host build directories are excluded. The image's own build directory
// keeps its entry without its contents, so "cd" into it still works when
// the image builds.
func RenderDockerignore(img Image) []byte {
	var b strings.Builder
	seen := false
	for _, d := range hostBuildDirs {
		if d == img.BuildDir {
			seen = true
			d += "/*"
		}
		b.WriteString(d + "\n")
	}
	if !seen && img.BuildDir != "" {
		b.WriteString(img.BuildDir + "/*\n")
	}
	return []byte(b.String())
}

// Writes the .dockerignore for img into dir and returns its path.
func WriteDockerignore(dir string, img Image) (string, error) {
	return write(dir, DockerignoreFile, RenderDockerignore(img))
}

func write(dir, name string, content []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, paths.DefaultFileMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	slog.Debug("file written", "path", path, "bytes", len(content))
	return path, nil
}

// Encodes v as compact JSON without HTML escaping, as Dockerfile exec-form
// instructions expect.
func toJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
