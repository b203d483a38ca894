// Parses flags and runs the sqlite-builder commands.
//
// Global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Annotate log records with source locations.
//	-d, --debug     Enable debug output.
//	    --config    Load flag values from a YAML file.
//
// Commands:
//
//	build <win|linux>   Download, generate and compile SQLite.
//	check               Probe for the external tools.
//	version             Show version information.
//
// Flag values are resolved from the command line first, then from
// SQLITE_BUILDER_* environment variables, then from the YAML configuration
// file, and finally from the built-in defaults. After parsing, the global
// logger is reconfigured to reflect the final level and verbosity.
package cli
