package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(destCmd)
}

var destCmd = &cobra.Command{
	Use:     "dest",
	Aliases: []string{"destination", "destinations"},
	Short:   "Manage saved backup destinations",
	Long: `Manage named backup destinations.

Each destination gets a stable id when it is added. Commands accept the
full id, a unique id prefix of at least four characters, or the name.`,
	Example: `  # Save a destination
  duplifolder dest add /mnt/usb/backups --name USB

  # List saved destinations
  duplifolder dest list

  # Back up to it
  duplifolder backup --dest USB

  See Also:
    duplifolder dest add    - Save a destination
    duplifolder dest list   - List destinations
    duplifolder dest remove - Remove one destination
    duplifolder dest clear  - Remove all destinations
    duplifolder dest export - Export destinations and history`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
