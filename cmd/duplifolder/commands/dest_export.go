package commands

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/catalog"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/pkg/fileutil"
)

var (
	destExportFormat string
	destExportOutput string
)

func init() {
	destExportCmd.Flags().StringVarP(&destExportFormat, "format", "f", catalog.FormatJSON, "output format: json, yaml, toml")
	destExportCmd.Flags().StringVarP(&destExportOutput, "output", "o", "", "write to a file instead of stdout")
	destCmd.AddCommand(destExportCmd)
}

var destExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export destinations and history",
	Long:  `Write saved destinations and backup history as JSON, YAML or TOML.`,
	Example: `  duplifolder dest export --format yaml
  duplifolder dest export -f toml -o backups.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var buf bytes.Buffer
		if err := newCatalog(cmd.Context()).Export(&buf, destExportFormat); err != nil {
			return err
		}

		if destExportOutput == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return errors.Wrap(err, "writing export")
		}

		if err := fileutil.AtomicWriteFile(destExportOutput, buf.Bytes(), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", destExportOutput)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", destExportOutput)
		}
		return nil
	},
}
