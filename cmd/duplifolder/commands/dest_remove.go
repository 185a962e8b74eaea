package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	destCmd.AddCommand(destRemoveCmd)
}

var destRemoveCmd = &cobra.Command{
	Use:     "remove <handle>",
	Aliases: []string{"rm"},
	Short:   "Remove one saved destination",
	Long: `Remove a saved destination by id, id prefix or name.

Backups already written there are not touched, and the ids of other
destinations do not change.`,
	Example: `  duplifolder dest remove USB
  duplifolder dest remove 3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newCatalog(cmd.Context()).RemoveCustomDestination(args[0])
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed destination %s (%s)\n", d.Name, shortID(d.ID))
		}
		return nil
	},
}
