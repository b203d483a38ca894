package build

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/sqlite-builder/internal/paths"
	"github.com/mholt/archiver/v3"
)

// Copies a host file or directory into the container.
//
// copyStr is "src dest". src is resolved against the build context, dest
// against workdir when it is relative.
func executeCopy(ctx context.Context, ctr container, copyStr, workdir, buildCtx string) error {
	src, dest, err := parseCopy(copyStr, workdir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	if !filepath.IsAbs(src) {
		src = filepath.Join(buildCtx, src)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	if err := ctr.MkdirAll(ctx, path.Dir(dest)); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	slog.Debug("copy", "src", src, "dest", dest, "dir", info.IsDir())

	pr, pw := io.Pipe()
	go func() {
		tw := tar.NewWriter(pw)
		var err error
		if info.IsDir() {
			err = writeDirToTar(tw, src, path.Base(dest))
		} else {
			err = writeFileToTar(tw, src, path.Base(dest))
		}
		if cerr := tw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	if err := ctr.CopyTo(ctx, pr, path.Dir(dest)); err != nil {
		pr.CloseWithError(err)
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}
	return nil
}

// Copies a path out of the container into the host directory dest.
func copyOut(ctx context.Context, ctr container, src, dest string) error {
	pr, pw := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := ctr.CopyFrom(ctx, pw, src)
		pw.CloseWithError(err)
		errc <- err
	}()

	if err := extractTar(pr, dest); err != nil {
		pr.CloseWithError(err)
		<-errc
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}
	if err := <-errc; err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}
	return nil
}

// Splits "src dest" and makes dest absolute.
//
// A relative dest is joined with workdir, so "." is workdir itself.
func parseCopy(s, workdir string) (src, dest string, err error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected source and destination, got %q", s)
	}

	src, dest = parts[0], parts[1]
	if !path.IsAbs(dest) {
		if workdir == "" {
			return "", "", fmt.Errorf("relative dest %q requires workdir", dest)
		}
		dest = path.Join(workdir, dest)
	}
	return src, path.Clean(dest), nil
}

// Writes a single host file to tw under name.
func writeFileToTar(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return err
	}
	return writeTarEntry(tw, hostPath, name, info)
}

// Writes the host directory tree rooted at hostDir to tw under prefix.
func writeDirToTar(tw *tar.Writer, hostDir, prefix string) error {
	return filepath.WalkDir(hostDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(hostDir, p)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return writeTarEntry(tw, p, path.Join(prefix, filepath.ToSlash(rel)), info)
	})
}

// Writes one header and, for regular files, the file content.
func writeTarEntry(tw *tar.Writer, hostPath, name string, info os.FileInfo) error {
	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(hostPath)
		if err != nil {
			return err
		}
		link = target
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Unpacks a tar stream into the host directory dest.
//
// Directories, regular files and symlinks are restored. Entries that would
// land outside dest are rejected.
func extractTar(r io.Reader, dest string) error {
	t := archiver.NewTar()
	if err := t.Open(r, 0); err != nil {
		return err
	}
	defer t.Close()

	for {
		f, err := t.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		hdr, ok := f.Header.(*tar.Header)
		if !ok {
			f.Close()
			return fmt.Errorf("unexpected tar header type %T", f.Header)
		}

		err = extractEntry(hdr, f, dest)
		f.Close()
		if err != nil {
			return err
		}
	}
}

func extractEntry(hdr *tar.Header, r io.Reader, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(hdr.Name))
	if rel, err := filepath.Rel(dest, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("tar entry %q escapes %s", hdr.Name, dest)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, paths.DefaultDirMode)

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
			return err
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
			return err
		}
		os.Remove(target)
		return os.Symlink(hdr.Linkname, target)

	default:
		slog.Debug("skipping tar entry", "name", hdr.Name, "type", hdr.Typeflag)
		return nil
	}
}
