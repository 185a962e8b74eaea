package catalog

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/store"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Snapshot is the exported view of the catalog.
type Snapshot struct {
	Destinations []store.Destination  `json:"destinations" yaml:"destinations" toml:"destinations"`
	History      []store.HistoryEntry `json:"history" yaml:"history" toml:"history"`
}

// Snapshot returns the current destinations and history.
func (c *Catalog) Snapshot() Snapshot {
	return Snapshot{
		Destinations: c.store.Destinations(),
		History:      c.store.History(),
	}
}

// Export writes the snapshot to w as json, yaml or toml.
func (c *Catalog) Export(w io.Writer, format string) error {
	snap := c.Snapshot()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(snap), "encoding json")
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(snap), "encoding toml")
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown export format %q", format)
	}
}
