package internal

import (
	"strconv"
	"sync/atomic"
)

var (
	quiet   atomic.Bool
	debug   atomic.Bool
	verbose atomic.Bool
)

// Seeds the output modes from the linker flags. Unparseable values are
// treated as "false".
func init() {
	seed(&quiet, rawQuiet)
	seed(&debug, rawDebug)
	seed(&verbose, rawVerbose)
}

func seed(mode *atomic.Bool, raw string) {
	if v, err := strconv.ParseBool(raw); err == nil {
		mode.Store(v)
	}
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) { quiet.Store(enabled) }

// Whether only warnings and errors are logged.
func IsQuiet() bool { return quiet.Load() }

// Enables or disables debug mode.
func SetDebug(enabled bool) { debug.Store(enabled) }

// Whether debug records are logged.
func IsDebug() bool { return debug.Load() }

// Enables or disables verbose mode.
func SetVerbose(enabled bool) { verbose.Store(enabled) }

// Whether log records carry source locations.
func IsVerbose() bool { return verbose.Load() }
