package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/store"
)

var historyJSON bool

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent backups",
	Long:  `Show the most recent backups, newest first. Only the last 20 are kept.`,
	Example: `  duplifolder history
  duplifolder history --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries := newCatalog(cmd.Context()).History()
		if historyJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		outputHistoryTabular(cmd.OutOrStdout(), entries)
		return nil
	},
}

func outputHistoryTabular(w io.Writer, entries []store.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No backups yet")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: duplifolder backup")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", colorBold.Sprint("WHEN"), colorBold.Sprint("DESTINATION"))
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", colorCyan.Sprint(displayTimestamp(e.Timestamp)), e.Destination)
	}
	tw.Flush()
}

// displayTimestamp renders a stored timestamp as "2006-01-02 15:04", or
// returns it unchanged if it does not parse.
func displayTimestamp(ts string) string {
	t, err := time.ParseInLocation(store.TimestampLayout, ts, time.Local)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04")
}
