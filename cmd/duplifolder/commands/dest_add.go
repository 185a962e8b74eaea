package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/cli/prompt"
)

var destAddName string

func init() {
	destAddCmd.Flags().StringVarP(&destAddName, "name", "n", "", "display name (default: the folder name)")
	destCmd.AddCommand(destAddCmd)
}

var destAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Save a backup destination",
	Long: `Save a folder as a named backup destination.

The folder does not have to exist yet, but it must be creatable. Without a
path argument you are prompted for the path and name.`,
	Example: `  duplifolder dest add /mnt/usb/backups --name USB
  duplifolder dest add ~/Dropbox/Backups`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDestAdd,
}

func runDestAdd(cmd *cobra.Command, args []string) error {
	cat := newCatalog(cmd.Context())

	path, name := "", destAddName
	if len(args) == 1 {
		path = args[0]
	} else {
		sel := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
		def, _ := cat.DefaultRoot()

		var err error
		if path, err = sel.Input("Backup folder path", def); err != nil {
			return err
		}
		if name == "" {
			if name, err = sel.Input("Name", filepath.Base(path)); err != nil {
				return err
			}
		}
	}

	d, err := cat.AddCustomDestination(name, path)
	if err != nil {
		return err
	}

	if !quiet {
		w := cmd.OutOrStdout()
		colorGreen.Fprint(w, "✓ ")
		fmt.Fprintf(w, "Added destination %s (%s): %s\n", d.Name, shortID(d.ID), d.Path)
	}
	return nil
}
