package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pngcard/internal/config"
	"github.com/roach88/pngcard/internal/logging"
)

// RootOptions holds global flags for all commands, plus the state the root
// command prepares for its subcommands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Populated by the root command before any subcommand runs.
	Config *config.Config
	Logger *slog.Logger

	// Now overrides the export clock (for testing). Defaults to time.Now.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pngcard CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pngcard",
		Short: "pngcard - cards that carry their own data",
		Long: `Export character, persona and scenario cards as PNG images that carry
their full record in an embedded tEXt chunk, and import them back.

The image stays an ordinary PNG: any viewer shows the rendered card, and
pngcard recovers the exact record from it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, CodeUsage,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/pngcard/config.toml)")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))

	return cmd
}

// setup loads configuration and builds the logger. --verbose forces debug.
func (o *RootOptions) setup(stderr io.Writer) error {
	cfg, path, exists, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeInvalidInput, "failed to load config", err)
	}
	o.Config = cfg

	level := cfg.LogLevel
	if o.Verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.LogFormat, Writer: stderr})
	if err != nil {
		return WrapExitError(ExitCommandError, CodeInvalidInput, "failed to configure logging", err)
	}
	o.Logger = logger
	logger.Debug("config loaded", "path", path, "exists", exists)

	if o.Now == nil {
		o.Now = time.Now
	}
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are reported on stderr, or as a JSON error response on stdout when
// --format json is in effect.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(&RootOptions{}, args, stdout, stderr)
}

func execute(opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag parsing and argument count errors come straight from cobra.
		exitErr = WrapExitError(ExitCommandError, CodeUsage, "invalid usage", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
	if opts.Format == "json" {
		f.Writer = stdout
	}
	var details interface{}
	if exitErr.Err != nil {
		details = exitErr.Err.Error()
	}
	_ = f.Error(exitErr.Kind, exitErr.Error(), details)
	return exitErr.Code
}
