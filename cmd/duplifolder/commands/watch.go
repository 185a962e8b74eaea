package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/ignore"
	"github.com/thoreinstein/duplifolder/internal/logging"
	"github.com/thoreinstein/duplifolder/internal/watch"
)

var (
	watchSource   string
	watchTarget   target
	watchDebounce = watch.DefaultDebounce
)

func init() {
	watchCmd.Flags().StringVarP(&watchSource, "source", "s", "", "folder to watch (default: current directory)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a backup starts")
	addTargetFlags(watchCmd, &watchTarget)
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Back up whenever the folder changes",
	Long: `Stay in the foreground and back up the source folder after it has been
quiet for the debounce period following a change.

Changes to ignored paths, and to the backup root when it lives inside the
source, do not trigger backups.`,
	Example: `  duplifolder watch
  duplifolder watch --debounce 30s --to /mnt/usb/backups`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	source, err := resolveSource(watchSource)
	if err != nil {
		return err
	}

	cat := newCatalog(cmd.Context())
	t := watchTarget
	root, err := t.root(cat)
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	matcher, err := ignore.Load(source, ignore.WithMode(currentConfig().Mode()), ignore.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w, err := watch.New(source, func(ctx context.Context) error {
		res, err := t.run(ctx, cat, source)
		if err != nil {
			return err
		}
		printResult(out, res)
		return nil
	},
		watch.WithDebounce(watchDebounce),
		watch.WithLogger(logger),
		watch.WithIgnore(matcher),
		watch.WithExclude(root),
	)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(out, "Watching %s, backing up to %s after %s of quiet. Press Ctrl+C to stop.\n",
			source, t.describe(), watchDebounce)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}
