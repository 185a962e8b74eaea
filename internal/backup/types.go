package backup

import (
	"github.com/thoreinstein/duplifolder/internal/store"
)

// HistoryRecorder receives a history entry after each successful backup.
// *store.Store implements it.
type HistoryRecorder interface {
	AppendHistoryEntry(entry store.HistoryEntry) error
}

// ProgressFunc is called after each top-level entry is copied. done counts
// finished entries out of total. It is advisory and must not block.
type ProgressFunc func(done, total int, entry string)

// Result describes a completed, or partially completed, backup.
type Result struct {
	// Source is the absolute source folder.
	Source string `json:"source"`

	// DestinationPath is the timestamped folder that was created.
	DestinationPath string `json:"destination"`

	// Timestamp uses store.TimestampLayout.
	Timestamp string `json:"timestamp"`

	// Entries lists the top-level entries that were copied.
	Entries []string `json:"entries"`

	// Skipped lists top-level entries excluded by ignore rules.
	Skipped []string `json:"skipped,omitempty"`

	// Files and Bytes count regular files copied.
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`

	// PersistErr is set when the copy succeeded but the history entry could
	// not be saved.
	PersistErr error `json:"-"`
}

// Percent returns the share of entries copied so far.
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
