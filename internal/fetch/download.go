package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/sqlite-builder/internal/paths"
	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/sha3"
)

// Downloads files over HTTP into a local cache.
type Fetcher struct {
	Client *http.Client // HTTP client. Nil uses [http.DefaultClient].
	Dir    string       // Cache directory. Empty uses [paths.Downloads].
}

// Returns the path of the file at url, downloading it if needed.
//
// A cached copy is reused when it exists and, if sum is non-empty, its
// SHA3-256 digest matches sum (hex encoded). A cached copy that fails the
// check is discarded and downloaded again. A fresh download that fails the
// check is removed and reported as [ErrChecksum].
func (f *Fetcher) Fetch(ctx context.Context, url, sum string) (string, error) {
	dest := f.cachePath(url)
	sum = strings.ToLower(strings.TrimSpace(sum))

	if ok, err := cached(dest, sum); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	} else if ok {
		slog.Info("using cached download", "url", url, "path", dest)
		return dest, nil
	}

	if err := f.Download(ctx, url, dest, sum); err != nil {
		return "", err
	}
	return dest, nil
}

// Downloads url to dest with a single GET request.
//
// The body is written to a temporary file next to dest and renamed into
// place once complete, so dest never holds a partial download. When sum is
// non-empty the SHA3-256 digest of the body must match it.
func (f *Fetcher) Download(ctx context.Context, url, dest, sum string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: %s", ErrDownload, url, resp.Status)
	}

	attrs := []any{"url", url}
	if resp.ContentLength > 0 {
		attrs = append(attrs, "size", humanize.Bytes(uint64(resp.ContentLength)))
	}
	slog.Info("downloading", attrs...)

	if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer os.Remove(tmp.Name())

	h := sha3.New256()
	n, err := io.Copy(io.MultiWriter(tmp, h), resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	if sum != "" {
		if got := hex.EncodeToString(h.Sum(nil)); got != sum {
			return fmt.Errorf("%w: %s: got %s, want %s", ErrChecksum, url, got, sum)
		}
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	slog.Info("downloaded", "path", dest, "size", humanize.Bytes(uint64(n)))
	return nil
}

// Location of the cached copy of url.
//
// Each URL gets its own subdirectory named after a hash of the URL, holding
// the file under the name given by [FileName].
func (f *Fetcher) cachePath(url string) string {
	dir := f.Dir
	if dir == "" {
		dir = paths.Downloads()
	}
	h := sha256.Sum256([]byte(url))
	return filepath.Join(dir, hex.EncodeToString(h[:8]), FileName(url))
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// Whether a usable cached copy exists at dest. A copy that fails the
// checksum is removed.
func cached(dest, sum string) (bool, error) {
	if _, err := os.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if sum == "" {
		return true, nil
	}

	got, err := fileSum(dest, sha3.New256())
	if err != nil {
		return false, err
	}
	if got == sum {
		return true, nil
	}

	slog.Warn("cached download failed checksum, discarding", "path", dest)
	return false, os.Remove(dest)
}

// Hex digest of the file at path.
func fileSum(path string, h hash.Hash) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fh.Close()

	if _, err := io.Copy(h, fh); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
