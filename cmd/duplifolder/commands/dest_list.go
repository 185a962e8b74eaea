package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/store"
)

var destListJSON bool

func init() {
	destListCmd.Flags().BoolVar(&destListJSON, "json", false, "Output in JSON format")
	destCmd.AddCommand(destListCmd)
}

var destListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved destinations",
	Long:    `List saved backup destinations in the order they were added.`,
	Example: `  duplifolder dest list
  duplifolder dest list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dests := newCatalog(cmd.Context()).Destinations()
		if destListJSON {
			return writeJSON(cmd.OutOrStdout(), dests)
		}
		outputDestinationsTabular(cmd.OutOrStdout(), dests)
		return nil
	},
}

func outputDestinationsTabular(w io.Writer, dests []store.Destination) {
	if len(dests) == 0 {
		fmt.Fprintln(w, "No saved destinations")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Add one with: duplifolder dest add <path> --name <name>")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		colorBold.Sprint("ID"), colorBold.Sprint("NAME"), colorBold.Sprint("PATH"))
	for _, d := range dests {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", colorGreen.Sprint(shortID(d.ID)), d.Name, d.Path)
	}
	tw.Flush()
}
