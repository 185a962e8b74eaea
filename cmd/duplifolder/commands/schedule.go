package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/logging"
	"github.com/thoreinstein/duplifolder/internal/scheduler"
)

var (
	scheduleSpec   string
	scheduleSource string
	scheduleTarget target
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "", `cron spec, e.g. "30 2 * * *" or "@every 4h" (required)`)
	scheduleCmd.Flags().StringVarP(&scheduleSource, "source", "s", "", "folder to back up (default: current directory)")
	addTargetFlags(scheduleCmd, &scheduleTarget)
	_ = scheduleCmd.MarkFlagRequired("cron")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Back up on a cron schedule",
	Long: `Stay in the foreground and back up the source folder on a cron schedule
until interrupted.

Specs use the five standard fields (minute hour day-of-month month
day-of-week) or a descriptor such as @hourly, @daily or "@every 90m". A run
that would land in the same minute as an earlier backup is skipped.`,
	Example: `  # Every night at 02:30 to the default root
  duplifolder schedule --cron "30 2 * * *"

  # Every four hours to a saved destination
  duplifolder schedule --cron "@every 4h" --dest USB`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	source, err := resolveSource(scheduleSource)
	if err != nil {
		return err
	}

	cat := newCatalog(cmd.Context())
	t := scheduleTarget
	if _, err := t.root(cat); err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	out := cmd.OutOrStdout()

	s, err := scheduler.New(scheduleSpec, func(ctx context.Context) error {
		res, err := t.run(ctx, cat, source)
		if err != nil {
			return err
		}
		printResult(out, res)
		return nil
	}, scheduler.WithLogger(logger))
	if err != nil {
		return errors.NewUserError(err, "See: duplifolder schedule --help")
	}

	if !quiet {
		fmt.Fprintf(out, "Backing up %s to %s on %q; next run %s. Press Ctrl+C to stop.\n",
			source, t.describe(), scheduleSpec, s.Next(time.Now()).Format("2006-01-02 15:04"))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}
