package store

// MaxHistory is the number of history entries retained.
const MaxHistory = 20

// TimestampLayout formats history timestamps as MMDDYYYY-HH.MM.
const TimestampLayout = "01022006-15.04"

// Destination is a named custom backup root.
type Destination struct {
	// ID is an opaque handle that stays stable for the life of the entry.
	ID string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`

	// Name is the display name chosen by the user.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Path is the absolute destination root.
	Path string `json:"path" yaml:"path" toml:"path"`
}

// HistoryEntry records one completed backup.
type HistoryEntry struct {
	// Timestamp uses TimestampLayout.
	Timestamp string `json:"timestamp" yaml:"timestamp" toml:"timestamp"`

	// Destination is the final backup folder.
	Destination string `json:"destination" yaml:"destination" toml:"destination"`
}

// PersistedConfig is the on-disk shape of the state file.
type PersistedConfig struct {
	CustomBackupPaths []Destination  `json:"customBackupPaths"`
	BackupHistory     []HistoryEntry `json:"backupHistory"`
}

func emptyConfig() PersistedConfig {
	return PersistedConfig{
		CustomBackupPaths: []Destination{},
		BackupHistory:     []HistoryEntry{},
	}
}
