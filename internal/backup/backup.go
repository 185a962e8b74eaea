package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/ignore"
	"github.com/thoreinstein/duplifolder/internal/store"
)

// destDirPerm is used for the destination root and the timestamped folder.
const destDirPerm = 0o755

// Engine runs backups of a source folder into a destination root.
type Engine struct {
	history  HistoryRecorder
	now      func() time.Time
	logger   *slog.Logger
	mode     ignore.Mode
	progress ProgressFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for the backup timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIgnoreMode selects how ignore files are interpreted.
func WithIgnoreMode(mode ignore.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// NewEngine creates an Engine that records history through h.
// h may be nil, in which case no history is recorded.
func NewEngine(h HistoryRecorder, opts ...Option) *Engine {
	e := &Engine{
		history: h,
		now:     time.Now,
		logger:  slog.Default(),
		mode:    ignore.ModeFlat,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Backup copies the non-ignored entries of sourcePath into a new folder
// "<basename> - <MMDDYYYY-HH.MM>" under destinationRoot, creating the root
// when missing, then records a history entry.
//
// On a copy failure the returned Result lists the entries already copied
// and the error is a *errors.CopyError; nothing is rolled back. A history
// write failure does not fail the backup and is reported on
// Result.PersistErr.
//
// ctx is only consulted between top-level entries.
func (e *Engine) Backup(ctx context.Context, sourcePath, destinationRoot string) (*Result, error) {
	source, err := validateSource(sourcePath)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(destinationRoot) == "" {
		return nil, &errors.InvalidDestinationError{}
	}
	root, err := filepath.Abs(destinationRoot)
	if err != nil {
		return nil, &errors.InvalidDestinationError{Path: destinationRoot, Err: err}
	}

	timestamp := e.now().Format(store.TimestampLayout)
	dest := filepath.Join(root, FolderName(source, timestamp))

	if _, err := os.Lstat(dest); err == nil {
		return nil, &errors.InvalidDestinationError{Path: dest, Err: errors.ErrDestinationExists}
	}

	matcher, err := ignore.Load(source, ignore.WithMode(e.mode), ignore.WithLogger(e.logger))
	if err != nil {
		return nil, &errors.InvalidSourceError{Path: source, Err: err}
	}
	entries, skipped, err := matcher.Partition()
	if err != nil {
		return nil, &errors.InvalidSourceError{Path: source, Err: err}
	}

	if err := os.MkdirAll(dest, destDirPerm); err != nil {
		return nil, &errors.InvalidDestinationError{Path: dest, Err: err}
	}

	logger := e.logger.With("source", source, "destination", dest)
	logger.Info("starting backup", "entries", len(entries), "skipped", len(skipped))
	if len(skipped) > 0 {
		logger.Debug("ignored entries", "names", skipped)
	}

	res := &Result{
		Source:          source,
		DestinationPath: dest,
		Timestamp:       timestamp,
		Entries:         make([]string, 0, len(entries)),
		Skipped:         skipped,
	}

	c := &copier{
		source:  source,
		dest:    dest,
		matcher: matcher,
		logger:  logger,
	}

	for i, name := range entries {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "backup stopped after %d of %d entries", i, len(entries))
		}

		if err := c.copyEntry(ctx, name); err != nil {
			logger.Error("copy failed", "entry", name, "error", err)
			res.Files, res.Bytes = c.files, c.bytes
			return res, &errors.CopyError{Entry: name, Err: err}
		}
		res.Entries = append(res.Entries, name)

		if e.progress != nil {
			e.progress(i+1, len(entries), name)
		}
	}
	res.Files, res.Bytes = c.files, c.bytes

	if e.history != nil {
		entry := store.HistoryEntry{Timestamp: timestamp, Destination: dest}
		if err := e.history.AppendHistoryEntry(entry); err != nil {
			logger.Warn("backup completed but history was not saved", "error", err)
			res.PersistErr = err
		}
	}

	logger.Info("backup complete", "files", res.Files, "bytes", res.Bytes)
	return res, nil
}

// FolderName returns "<sanitized basename of source> - <timestamp>".
func FolderName(source, timestamp string) string {
	return SanitizeName(filepath.Base(source)) + " - " + timestamp
}

// SanitizeName replaces characters that are invalid in folder names on
// common filesystems with "_".
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '"', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func validateSource(sourcePath string) (string, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return "", &errors.InvalidSourceError{}
	}

	source, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", &errors.InvalidSourceError{Path: sourcePath, Err: err}
	}

	info, err := os.Stat(source)
	if err != nil {
		return "", &errors.InvalidSourceError{Path: source, Err: err}
	}
	if !info.IsDir() {
		return "", &errors.InvalidSourceError{Path: source, Err: errors.New("not a directory")}
	}
	return source, nil
}
