package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/duplifolder/internal/config"
	"github.com/thoreinstein/duplifolder/internal/editor"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/paths"
	"github.com/thoreinstein/duplifolder/pkg/fileutil"
)

// configFilePerm keeps the settings file private; it may name private paths.
const configFilePerm = 0o600

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage duplifolder settings",
	Long: `Manage settings stored in config.yaml under the duplifolder config directory.

Keys:
  backup_root   root for default backups (default: Backups on the desktop)
  ignore_mode   flat or gitignore (default: flat)
  state_file    where destinations and history are kept

Any key can also be set through the environment, e.g. DUPLIFOLDER_BACKUP_ROOT.
Without a subcommand, lists all settings.`,
	Example: `  # List all settings
  duplifolder config

  # Use gitignore semantics for ignore files
  duplifolder config set ignore_mode gitignore

See Also: duplifolder doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting",
	Example: `  duplifolder config get backup_root

See Also: duplifolder config set, duplifolder config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long:  `Set a setting in the config file. Values are validated before they are written.`,
	Example: `  duplifolder config set backup_root ~/Backups
  duplifolder config set ignore_mode gitignore

See Also: duplifolder config get, duplifolder config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Long:  `List the effective settings in YAML format, including environment overrides.`,
	Example: `  duplifolder config list

See Also: duplifolder config get, duplifolder config set`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in your editor, creating it first if needed.

Uses $DUPLIFOLDER_EDITOR, $EDITOR or $VISUAL, falling back to nano or vi.`,
	Example: `  duplifolder config edit
  EDITOR=code duplifolder config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !config.ValidKey(key) {
		return errors.NewUserError(
			errors.Newf("unknown key %q", key),
			"Run: duplifolder config list",
		)
	}

	val := viper.GetString(key)
	if val == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := config.ValidateValue(key, value); err != nil {
		return errors.NewUserError(err, "Run: duplifolder config --help")
	}

	path := config.FilePath()
	if err := writeSetting(path, key, value); err != nil {
		return err
	}
	viper.Set(key, value)

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	}
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	cfg := make(map[string]string, len(config.Keys()))
	for _, k := range config.Keys() {
		cfg[k] = viper.GetString(k)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := config.FilePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeSettings(path, map[string]any{}); err != nil {
			return err
		}
	}

	return editor.Open(cmd.Context(), path)
}

// writeSetting updates one key in the settings file at path, leaving the
// others and any environment overrides out of it.
func writeSetting(path, key, value string) error {
	existing := map[string]any{}
	data, err := fileutil.ReadFileWithLimit(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &existing); err != nil {
			return errors.Wrapf(errors.ErrInvalidConfig, "parsing %s: %v", path, err)
		}
		if existing == nil {
			existing = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return errors.Wrap(err, "reading config file")
	}

	existing[key] = value
	return writeSettings(path, existing)
}

func writeSettings(path string, v map[string]any) error {
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, v, configFilePerm); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
