package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"
)

// Extracts a zip archive into dir.
//
// Existing files are overwritten and dir is created if missing.
func Extract(ctx context.Context, archive, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	slog.Info("extracting archive", "archive", archive, "dir", dir)

	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true

	if err := z.Unarchive(archive, dir); err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}
	return nil
}

// Extracts a zip archive whose contents live under a single top-level
// directory named after the archive, and renames that directory to name.
//
// For "sqlite-amalgamation-3260000.zip" the top-level directory is
// "sqlite-amalgamation-3260000". An existing directory called name inside dir
// is replaced. Returns the path of the renamed directory.
func Unpack(ctx context.Context, archive, dir, name string) (string, error) {
	if err := Extract(ctx, archive, dir); err != nil {
		return "", err
	}

	top := filepath.Join(dir, strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive)))
	if info, err := os.Stat(top); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s has no top-level directory %q", ErrExtract, archive, filepath.Base(top))
	}

	target := filepath.Join(dir, name)
	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtract, err)
	}
	if err := os.Rename(top, target); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtract, err)
	}

	return target, nil
}
