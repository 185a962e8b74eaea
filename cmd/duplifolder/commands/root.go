// Package commands implements the CLI commands for duplifolder.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/cmd"
	"github.com/thoreinstein/duplifolder/internal/config"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/logging"
)

// debugEnv raises verbosity when no -v flag is given: 1/true is debug,
// 2 is trace.
const debugEnv = "DUPLIFOLDER_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// settings holds the loaded configuration; nil when loading failed.
var settings *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// logFileHandle is closed by Execute.
var logFileHandle io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("duplifolder version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	settings, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "duplifolder",
	Short: "Copy a folder into a timestamped backup",
	Long: `duplifolder copies a folder into a new "<name> - MMDDYYYY-HH.MM" folder
under a backup root, skipping whatever .gitignore and .duplifolderignore
exclude.

Backups go to the Backups folder on your desktop unless you pick a saved
destination or pass a path. Destinations and the last 20 backups are
remembered between runs.`,
	Example: `  # Back up the current folder to the default root
  duplifolder backup

  # Back up to a saved destination
  duplifolder dest add /mnt/usb/backups --name USB
  duplifolder backup --dest USB

  # Back up every night at 02:30
  duplifolder schedule --cron "30 2 * * *"

  See Also: duplifolder history, duplifolder doctor, duplifolder config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pick one of -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return errors.NewUserError(err, "Use --log-format text or --log-format json")
	}

	cfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "Check the --log-file path")
		}
		logFileHandle = f
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a broken settings file, except for the commands that
// are used to inspect or repair it.
func checkConfig(cmd *cobra.Command) error {
	if configLoadErr == nil {
		return nil
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "doctor", "config":
			return nil
		}
	}
	return errors.NewConfigError(configLoadErr)
}

// currentConfig returns the loaded settings, or defaults when loading failed.
func currentConfig() *config.Config {
	if settings != nil {
		return settings
	}
	return &config.Config{}
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	defer func() {
		if logFileHandle != nil {
			logFileHandle.Close()
			logFileHandle = nil
		}
	}()

	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	exitErr := toExitError(err)
	if exitErr.Err != nil {
		printError(rootCmd.ErrOrStderr(), exitErr)
	}
	return exitErr
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return errors.ExitSuccess
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return errors.ExitUser
}

// toExitError classifies err into a user or system failure.
func toExitError(err error) *errors.ExitError {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case errors.Is(err, errors.ErrDestinationExists):
		return errors.NewUserError(err, "A backup of this folder was already made this minute; try again shortly")
	case errors.Is(err, errors.ErrInvalidSource):
		return errors.NewUserError(err, "Run inside the folder to back up, or pass --source")
	case errors.Is(err, errors.ErrInvalidDestination):
		return errors.NewUserError(err, "Check the destination path")
	case errors.Is(err, errors.ErrNotFound):
		return errors.NewUserError(err, "Run: duplifolder dest list")
	case errors.Is(err, errors.ErrInvalidConfig):
		return errors.NewConfigError(err)
	case errors.Is(err, errors.ErrUnsupportedEnvironment):
		return errors.NewUserError(err, "Run: duplifolder config set backup_root <dir>")
	case errors.Is(err, errors.ErrCopy), errors.Is(err, errors.ErrPersistence):
		return errors.NewSystemError(err, "")
	default:
		return errors.NewUserError(err, "")
	}
}

func printError(w io.Writer, e *errors.ExitError) {
	colorRed.Fprint(w, "Error: ")
	fmt.Fprintln(w, e.Err)
	if hint := errors.FlattenHints(e.Err); hint != "" {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", e.Suggestion)
	}
}
