package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thoreinstein/duplifolder/internal/backup"
	"github.com/thoreinstein/duplifolder/internal/catalog"
	"github.com/thoreinstein/duplifolder/internal/cli/prompt"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/logging"
)

var (
	backupSource string
	backupTarget target
	backupPick   bool
	backupJSON   bool
)

func init() {
	backupCmd.Flags().StringVarP(&backupSource, "source", "s", "", "folder to back up (default: current directory)")
	addTargetFlags(backupCmd, &backupTarget)
	backupCmd.Flags().BoolVar(&backupPick, "pick", false, "choose a saved destination interactively")
	backupCmd.Flags().BoolVar(&backupJSON, "json", false, "print the result as JSON")
	backupCmd.MarkFlagsMutuallyExclusive("to", "dest", "pick")
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up a folder now",
	Long: `Copy the source folder into a new "<name> - MMDDYYYY-HH.MM" folder.

Top-level entries matched by .gitignore or .duplifolderignore in the source
are skipped. Set ignore_mode to gitignore to apply full gitignore rules at
every depth.

Without --to, --dest or --pick the backup goes to the default root: the
backup_root setting, or the Backups folder on your desktop.`,
	Example: `  # Back up the current folder
  duplifolder backup

  # Back up another folder to a specific place
  duplifolder backup --source ~/projects/site --to /mnt/usb/backups

  # Choose among saved destinations
  duplifolder backup --pick

  See Also:
    duplifolder dest    - Manage saved destinations
    duplifolder history - Show recent backups`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, _ []string) error {
	source, err := resolveSource(backupSource)
	if err != nil {
		return err
	}

	cat := newCatalog(cmd.Context())

	t := backupTarget
	if backupPick {
		d, err := pickDestination(cmd, cat)
		if err != nil {
			return err
		}
		t = target{dest: d}
	}

	var opts []backup.Option
	if !quiet && !backupJSON && logging.IsTTY(cmd.ErrOrStderr()) {
		opts = append(opts, backup.WithProgress(progressPrinter(cmd.ErrOrStderr())))
	}

	res, err := t.run(cmd.Context(), cat, source, opts...)
	if err != nil {
		return err
	}

	if backupJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// pickDestination returns the id of a destination chosen by the user: a
// fuzzy finder on a terminal, a numbered prompt otherwise.
func pickDestination(cmd *cobra.Command, cat *catalog.Catalog) (string, error) {
	dests := cat.Destinations()
	if len(dests) == 0 {
		return "", errors.NewUserError(prompt.ErrNoDestinations, "Add one with: duplifolder dest add <path>")
	}

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d, err := prompt.FuzzyDestination(dests)
		if err != nil {
			return "", err
		}
		return d.ID, nil
	}

	d, err := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.ErrOrStderr()).SelectDestination(dests)
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

// progressPrinter redraws a single status line.
func progressPrinter(w io.Writer) backup.ProgressFunc {
	return func(done, total int, entry string) {
		fmt.Fprintf(w, "\r\033[K%3d%% (%d/%d) %s", backup.Percent(done, total), done, total, entry)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}
