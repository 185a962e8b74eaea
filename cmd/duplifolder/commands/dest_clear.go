package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/cli/prompt"
)

var destClearYes bool

func init() {
	destClearCmd.Flags().BoolVarP(&destClearYes, "yes", "y", false, "do not ask for confirmation")
	destCmd.AddCommand(destClearCmd)
}

var destClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved destinations",
	Long: `Remove every saved destination. Backup history is kept and backups
already written are not touched.`,
	Example: `  duplifolder dest clear
  duplifolder dest clear --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat := newCatalog(cmd.Context())
		n := len(cat.Destinations())
		if n == 0 {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved destinations")
			}
			return nil
		}

		if !destClearYes {
			sel := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
			ok, err := sel.Confirm(fmt.Sprintf("Remove %d saved destination(s)?", n))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		if err := cat.ClearCustomDestinations(); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d destination(s)\n", n)
		}
		return nil
	},
}
