package build

import (
	"archive/tar"
	"context"
	"io"
	"sort"

	"github.com/cruciblehq/sqlite-builder/internal/runtime"
)

type execCall struct {
	shell   string
	command string
	env     []string
	workdir string
}

// In-memory stand-in for a build container.
type fakeContainer struct {
	execs    []execCall
	dirs     []string
	copied   map[string]string // tar entry name -> content, per CopyTo
	copyDest []string
	exitCode map[string]int    // command -> exit code
	files    map[string]string // entries served by CopyFrom
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{
		copied:   make(map[string]string),
		exitCode: make(map[string]int),
		files:    make(map[string]string),
	}
}

func (f *fakeContainer) Exec(ctx context.Context, shell, command string, env []string, workdir string) (*runtime.ExecResult, error) {
	f.execs = append(f.execs, execCall{shell, command, env, workdir})
	code := f.exitCode[command]
	res := &runtime.ExecResult{ExitCode: code}
	if code != 0 {
		res.Stderr = "boom"
	}
	return res, nil
}

func (f *fakeContainer) MkdirAll(ctx context.Context, dir string) error {
	f.dirs = append(f.dirs, dir)
	return nil
}

func (f *fakeContainer) CopyTo(ctx context.Context, r io.Reader, destDir string) error {
	f.copyDest = append(f.copyDest, destDir)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			return err
		}
		f.copied[hdr.Name] = string(b)
	}
}

func (f *fakeContainer) CopyFrom(ctx context.Context, w io.Writer, path string) error {
	tw := tar.NewWriter(w)
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		body := f.files[name]
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if name[len(name)-1] == '/' {
			hdr = &tar.Header{Name: name, Mode: 0755, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := io.WriteString(tw, body); err != nil {
			return err
		}
	}
	return tw.Close()
}
