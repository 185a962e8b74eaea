package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/ignore"
	"github.com/thoreinstein/duplifolder/internal/paths"
)

// Setting keys.
const (
	KeyBackupRoot = "backup_root"
	KeyIgnoreMode = "ignore_mode"
	KeyStateFile  = "state_file"
)

// EnvPrefix is prepended to upper-cased keys for environment overrides,
// e.g. DUPLIFOLDER_BACKUP_ROOT.
const EnvPrefix = "DUPLIFOLDER"

// FileName is the settings file name without extension.
const FileName = "config"

// Config holds user settings.
type Config struct {
	// BackupRoot replaces the desktop Backups folder for default backups.
	BackupRoot string `mapstructure:"backup_root" yaml:"backup_root"`

	// IgnoreMode is "flat" or "gitignore".
	IgnoreMode string `mapstructure:"ignore_mode" yaml:"ignore_mode"`

	// StateFile overrides the location of the destinations/history file.
	StateFile string `mapstructure:"state_file" yaml:"state_file"`
}

// Keys returns the recognized setting keys in display order.
func Keys() []string {
	return []string{KeyBackupRoot, KeyIgnoreMode, KeyStateFile}
}

// ValidKey reports whether key is a recognized setting.
func ValidKey(key string) bool {
	return slices.Contains(Keys(), key)
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName(FileName)
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault(KeyBackupRoot, "")
	viper.SetDefault(KeyIgnoreMode, string(ignore.ModeFlat))
	viper.SetDefault(KeyStateFile, "")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches the default locations and falls back to
// defaults when none exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load: defaults apply.
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "validating config: %s", strings.Join(msgs, "; "))
	}

	return &cfg, nil
}

// Mode returns the parsed ignore mode.
func (c *Config) Mode() ignore.Mode {
	m, err := ignore.ParseMode(c.IgnoreMode)
	if err != nil {
		return ignore.ModeFlat
	}
	return m
}

// StatePath returns the state file location, honoring the override.
func (c *Config) StatePath() string {
	if c.StateFile == "" {
		return paths.StateFile()
	}
	return paths.ExpandHome(c.StateFile)
}

// DefaultRoot returns the root used for default backups.
func (c *Config) DefaultRoot() (string, error) {
	if c.BackupRoot != "" {
		return paths.Absolute(c.BackupRoot)
	}
	return paths.DefaultBackupRoot()
}

// FilePath returns the settings file Viper read, or the default location
// when none was found.
func FilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.ConfigDir(), FileName+".yaml")
}
