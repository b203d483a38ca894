package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/sqlite-builder/internal"
	"github.com/cruciblehq/sqlite-builder/internal/fetch"
	"github.com/cruciblehq/sqlite-builder/internal/logging"
	"github.com/cruciblehq/sqlite-builder/internal/paths"
	"github.com/cruciblehq/sqlite-builder/internal/runtime"
)

// Represents the root command for sqlite-builder.
type Root struct {
	Quiet   bool            `short:"q" help:"Suppress informational output."`
	Verbose bool            `short:"v" help:"Annotate log records with source locations."`
	Debug   bool            `short:"d" help:"Enable debug output."`
	Config  kong.ConfigFlag `help:"Load flag values from a YAML file." placeholder:"PATH"`
	Build   BuildCmd        `cmd:"" help:"Download, generate and compile SQLite."`
	Check   CheckCmd        `cmd:"" help:"Check that the external tools are installed."`
	Version VersionCmd      `cmd:"" help:"Show version information."`
}

// Flags of the running invocation.
var RootCmd Root

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	parser, err := newParser(&RootCmd, []string{paths.ConfigFile()}, kong.BindTo(ctx, (*context.Context)(nil)))
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	configureLogger()

	return kongCtx.Run()
}

// Builds the parser for cli, resolving defaults from the YAML files at
// configPaths. Missing files are ignored.
func newParser(cli any, configPaths []string, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(internal.Name),
		kong.Description("Builds SQLite from the amalgamation source.\n\nDownloads the archive, generates a CMake project, compiles it for the\nrequested platform and optionally packages it into a container image or\nprovisions a VirtualBox VM."),
		kong.UsageOnError(),
		kong.DefaultEnvars(envPrefix()),
		kong.Configuration(YAML, configPaths...),
		kong.Vars{
			"version":              internal.VersionString(),
			"source_url":           fetch.AmalgamationURL,
			"iso_url":              fetch.CentOSISOURL,
			"containerd_address":   runtime.DefaultAddress,
			"containerd_namespace": runtime.DefaultNamespace,
		},
	}, options...)
	return kong.New(cli, options...)
}

// Prefix of the environment variables that set flags.
func envPrefix() string {
	return strings.ToUpper(strings.ReplaceAll(internal.Name, "-", "_"))
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	logging.Configure(logging.Options{
		Quiet:   RootCmd.Quiet || internal.IsQuiet(),
		Debug:   RootCmd.Debug || internal.IsDebug(),
		Verbose: RootCmd.Verbose || internal.IsVerbose(),
	})
}
