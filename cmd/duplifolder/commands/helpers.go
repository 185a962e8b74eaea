package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/backup"
	"github.com/thoreinstein/duplifolder/internal/catalog"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/logging"
	"github.com/thoreinstein/duplifolder/internal/paths"
	"github.com/thoreinstein/duplifolder/internal/store"
)

// Terminal colors. fatih/color turns them off when stdout is not a TTY or
// NO_COLOR is set.
var (
	colorBold   = color.New(color.Bold)
	colorCyan   = color.New(color.FgCyan, color.Bold)
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGray   = color.New(color.FgHiBlack)
)

// newCatalog builds a Catalog from the current settings.
func newCatalog(ctx context.Context) *catalog.Catalog {
	cfg := currentConfig()
	logger := logging.FromContext(ctx)

	st := store.New(cfg.StatePath(), store.WithLogger(logger))
	return catalog.New(st,
		catalog.WithLogger(logger),
		catalog.WithDefaultRoot(cfg.BackupRoot),
		catalog.WithEngineOptions(backup.WithIgnoreMode(cfg.Mode())),
	)
}

// resolveSource returns the folder to back up: --source or the working
// directory.
func resolveSource(source string) (string, error) {
	if source == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &errors.InvalidSourceError{Err: err}
		}
		return wd, nil
	}
	abs, err := paths.Absolute(source)
	if err != nil {
		return "", &errors.InvalidSourceError{Path: source, Err: err}
	}
	return abs, nil
}

// target names where a backup goes: a saved destination, an explicit path,
// or the default root when both are empty.
type target struct {
	dest string
	to   string
}

func addTargetFlags(cmd *cobra.Command, t *target) {
	cmd.Flags().StringVar(&t.to, "to", "", "back up under this folder instead of the default root")
	cmd.Flags().StringVar(&t.dest, "dest", "", "back up under a saved destination (id, id prefix or name)")
	cmd.MarkFlagsMutuallyExclusive("to", "dest")
}

// run performs one backup to the target.
func (t target) run(ctx context.Context, cat *catalog.Catalog, source string, opts ...backup.Option) (*backup.Result, error) {
	switch {
	case t.dest != "":
		return cat.RunDestinationBackup(ctx, source, t.dest, opts...)
	case t.to != "":
		return cat.RunCustomBackup(ctx, source, t.to, opts...)
	default:
		return cat.RunDefaultBackup(ctx, source, opts...)
	}
}

// root resolves the folder the target writes under.
func (t target) root(cat *catalog.Catalog) (string, error) {
	switch {
	case t.dest != "":
		d, err := cat.Resolve(t.dest)
		if err != nil {
			return "", err
		}
		return d.Path, nil
	case t.to != "":
		return paths.Absolute(t.to)
	default:
		return cat.DefaultRoot()
	}
}

// describe names the target for messages.
func (t target) describe() string {
	switch {
	case t.dest != "":
		return "destination " + t.dest
	case t.to != "":
		return t.to
	default:
		return "default root"
	}
}

// printResult reports a finished backup.
func printResult(w io.Writer, res *backup.Result) {
	if quiet {
		return
	}
	colorGreen.Fprint(w, "✓ ")
	fmt.Fprintf(w, "Backed up %s to %s (%d files, %s)\n",
		res.Source, res.DestinationPath, res.Files, formatBytes(res.Bytes))
	if len(res.Skipped) > 0 {
		colorGray.Fprintf(w, "  ignored: %d top-level entries\n", len(res.Skipped))
	}
	if res.PersistErr != nil {
		colorYellow.Fprintf(w, "  warning: history was not saved: %v\n", res.PersistErr)
	}
}

// shortID trims a destination id for tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
