// Package commands implements the CLI commands for ptask.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/ptask/cmd"
	"github.com/thoreinstein/ptask/internal/errors"
	"github.com/thoreinstein/ptask/internal/logging"
	"github.com/thoreinstein/ptask/internal/paths"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// logLevel is shared by all handlers so debug_pytask can lower it after
// the configuration has been resolved.
var logLevel = new(slog.LevelVar)

// openLogFile is closed by Execute.
var openLogFile *os.File

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = paths.DefaultLogFile()

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("ptask version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "ptask",
	Short: "Discover and configure task projects",
	Long: `ptask finds the root of a task project and resolves its configuration.

The configuration lives in the [tool.pytask.ini_options] table of a
pyproject.toml. ptask searches the directories containing the given paths
and their parents, stopping at the first manifest with that table or at the
top of a git repository.

Values are resolved in this order, later ones winning:
  1. defaults of options declared by any command
  2. values from the configuration file
  3. options typed on the command line`,
	Example: `  # Show the effective configuration
  ptask config

  # List task files below src/
  ptask collect src

  # Use a specific configuration file
  ptask markers --config ci/pyproject.toml`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"),
			"cannot use --quiet and --verbose together")
	}

	if quiet {
		logLevel.Set(slog.LevelError)
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("PTASK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		logLevel.Set(logging.LevelFromVerbosity(v))
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON, logging.FormatText:
		primaryHandler = logging.NewFormatHandler(logging.Config{
			Level:  logLevel,
			Format: logging.Format(logFormat),
			Output: cmd.ErrOrStderr(),
		})
	default:
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat),
			"Use --log-format text or --log-format json")
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
			return errors.NewSystemError(err, "failed to create log directory")
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		openLogFile = f
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if openLogFile != nil {
			openLogFile.Close()
		}
	}()
	return rootCmd.Execute()
}

// PrintError writes err and its suggestion, if any, for the user.
func PrintError(w io.Writer, err error) {
	label := "Error:"
	if logging.SupportsColor(w) {
		label = color.New(color.FgRed, color.Bold).Sprint(label)
	}
	fmt.Fprintf(w, "%s %v\n", label, err)

	if s := errors.SuggestionOf(err); s != "" {
		fmt.Fprintf(w, "\n%s\n", s)
	}
}
