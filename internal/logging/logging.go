package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/cruciblehq/sqlite-builder/internal"
	"github.com/mattn/go-isatty"
)

// Output settings for a logger.
type Options struct {
	Quiet   bool // Only warnings and errors.
	Debug   bool // Include debug records. Takes precedence over Quiet.
	Verbose bool // Annotate records with their source location.
}

// Options seeded from the build-time linker flags.
func Defaults() Options {
	return Options{
		Quiet:   internal.IsQuiet(),
		Debug:   internal.IsDebug(),
		Verbose: internal.IsVerbose(),
	}
}

// Level selected by opts.
func (o Options) Level() slog.Level {
	switch {
	case o.Debug:
		return slog.LevelDebug
	case o.Quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Returns a handler writing to w.
//
// Terminals get slog's text format, anything else JSON.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	ho := &slog.HandlerOptions{
		Level:     opts.Level(),
		AddSource: opts.Verbose,
	}
	if IsTerminal(w) {
		return slog.NewTextHandler(w, ho)
	}
	return slog.NewJSONHandler(w, ho)
}

// Returns a logger writing to w, grouped under the binary name.
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(NewHandler(w, opts).WithGroup(internal.Name))
}

// Replaces the default logger with one writing to stderr.
func Configure(opts Options) {
	slog.SetDefault(New(os.Stderr, opts))
}

// Whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
