package fetch

import (
	"archive/zip"
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/sha3"
)

func sha3Hex(b []byte) string {
	sum := sha3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Serves body at every path and counts requests.
func serve(t *testing.T, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchCaches(t *testing.T) {
	body := []byte("amalgamation")
	srv, hits := serve(t, body)
	f := &Fetcher{Client: srv.Client(), Dir: t.TempDir()}
	url := srv.URL + "/2018/sqlite.zip"

	first, err := f.Fetch(context.Background(), url, "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	second, err := f.Fetch(context.Background(), url, sha3Hex(body))
	if err != nil {
		t.Fatalf("Fetch (cached): %v", err)
	}

	if first != second {
		t.Fatalf("paths differ: %q vs %q", first, second)
	}
	if filepath.Base(first) != "sqlite.zip" {
		t.Fatalf("base = %q, want sqlite.zip", filepath.Base(first))
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}

	got, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(body) {
		t.Fatalf("content = %q, want %q", got, body)
	}
}

func TestFetchRefreshesStaleCache(t *testing.T) {
	body := []byte("fresh")
	srv, hits := serve(t, body)
	f := &Fetcher{Client: srv.Client(), Dir: t.TempDir()}
	url := srv.URL + "/file.zip"

	stale := f.cachePath(url)
	if err := os.MkdirAll(filepath.Dir(stale), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := f.Fetch(context.Background(), url, sha3Hex(body))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}
	got, _ := os.ReadFile(path)
	if string(got) != "fresh" {
		t.Fatalf("content = %q, want fresh", got)
	}
}

func TestDownloadChecksumMismatch(t *testing.T) {
	srv, _ := serve(t, []byte("tampered"))
	f := &Fetcher{Client: srv.Client()}
	dest := filepath.Join(t.TempDir(), "file.zip")

	err := f.Download(context.Background(), srv.URL, dest, sha3Hex([]byte("original")))
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("file left behind after checksum mismatch")
	}

	entries, _ := os.ReadDir(filepath.Dir(dest))
	if len(entries) != 0 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := &Fetcher{Client: srv.Client()}
	err := f.Download(context.Background(), srv.URL+"/missing.zip", filepath.Join(t.TempDir(), "x"), "")
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("err = %v, want ErrDownload", err)
	}
}

func TestDownloadCancelled(t *testing.T) {
	srv, _ := serve(t, []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Fetcher{Client: srv.Client()}
	err := f.Download(ctx, srv.URL, filepath.Join(t.TempDir(), "x"), "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

// Writes a zip archive with the given entries. Names ending in "/" are
// directories.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	fh, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	zw := zip.NewWriter(fh)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUnpack(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(t.TempDir(), "sqlite-amalgamation-3260000.zip")
	writeZip(t, archive, map[string]string{
		"sqlite-amalgamation-3260000/":          "",
		"sqlite-amalgamation-3260000/sqlite3.c": "int main;",
		"sqlite-amalgamation-3260000/sqlite3.h": "#define SQLITE",
	})

	src, err := Unpack(context.Background(), archive, dir, "sqlite_build")
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if src != filepath.Join(dir, "sqlite_build") {
		t.Fatalf("src = %q", src)
	}

	got, err := os.ReadFile(filepath.Join(src, "sqlite3.c"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "int main;" {
		t.Fatalf("sqlite3.c = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "sqlite-amalgamation-3260000")); !os.IsNotExist(err) {
		t.Fatal("top-level directory was not renamed")
	}
}

func TestUnpackReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(t.TempDir(), "pkg.zip")
	writeZip(t, archive, map[string]string{"pkg/new.txt": "new"})

	old := filepath.Join(dir, "out")
	if err := os.MkdirAll(old, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(old, "old.txt"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Unpack(context.Background(), archive, dir, "out"); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if _, err := os.Stat(filepath.Join(old, "old.txt")); !os.IsNotExist(err) {
		t.Fatal("stale file survived")
	}
	if _, err := os.Stat(filepath.Join(old, "new.txt")); err != nil {
		t.Fatalf("new file missing: %v", err)
	}
}

func TestUnpackMissingTopLevel(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "flat.zip")
	writeZip(t, archive, map[string]string{"sqlite3.c": ""})

	_, err := Unpack(context.Background(), archive, t.TempDir(), "sqlite_build")
	if !errors.Is(err, ErrExtract) {
		t.Fatalf("err = %v, want ErrExtract", err)
	}
}

func TestExtractInvalidArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.zip")
	if err := os.WriteFile(archive, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Extract(context.Background(), archive, t.TempDir()); !errors.Is(err, ErrExtract) {
		t.Fatalf("err = %v, want ErrExtract", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{AmalgamationURL, "sqlite-amalgamation-3260000.zip"},
		{"https://mirror.example/sqlite.zip?token=abc&x=1", "sqlite.zip"},
		{"https://mirror.example/isos/CentOS.iso#sha", "CentOS.iso"},
		{"https://mirror.example/releases/sqlite.zip/", "sqlite.zip"},
		{"https://mirror.example/", fallbackName},
		{"https://mirror.example", fallbackName},
		{"://bad", fallbackName},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := FileName(tt.url); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFetchQueryURL(t *testing.T) {
	srv, _ := serve(t, []byte("zip"))
	f := &Fetcher{Client: srv.Client(), Dir: t.TempDir()}

	got, err := f.Fetch(context.Background(), srv.URL+"/sqlite-amalgamation-3260000.zip?mirror=1", "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Base(got) != "sqlite-amalgamation-3260000.zip" {
		t.Fatalf("cached as %q", got)
	}
}
