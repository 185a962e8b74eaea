// Package watch triggers a backup after a source folder stops changing.
//
// Every directory of the source that the ignore rules keep is watched with
// fsnotify. Changes restart a debounce timer; when it expires without
// further changes the backup runs once. Changes that land while a backup is
// copying start a new debounce window after it completes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/ignore"
)

// DefaultDebounce is the quiet period before a backup starts.
const DefaultDebounce = 5 * time.Second

// RunFunc performs one backup.
type RunFunc func(ctx context.Context) error

// Watcher watches one source folder.
type Watcher struct {
	source   string
	run      RunFunc
	debounce time.Duration
	logger   *slog.Logger
	matcher  *ignore.Matcher
	exclude  []string

	ready     chan struct{}
	readyOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithIgnore skips paths the matcher excludes. The rules are reloaded with
// the same mode whenever an ignore file at the source root changes.
func WithIgnore(m *ignore.Matcher) Option {
	return func(w *Watcher) {
		w.matcher = m
	}
}

// WithExclude skips dir and everything below it, typically a backup root
// that lives inside the source.
func WithExclude(dir string) Option {
	return func(w *Watcher) {
		if abs, err := filepath.Abs(dir); err == nil {
			w.exclude = append(w.exclude, abs)
		}
	}
}

// New returns a Watcher for source.
func New(source string, run RunFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, &errors.InvalidSourceError{Path: source, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &errors.InvalidSourceError{Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &errors.InvalidSourceError{Path: abs, Err: errors.New("not a directory")}
	}

	w := &Watcher{
		source:   abs,
		run:      run,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Ready is closed once the initial directory watches are in place.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is cancelled. Backup failures are logged and do not
// stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer fsw.Close()

	n, err := w.addRecursive(fsw, w.source)
	if err != nil {
		return errors.Wrapf(err, "watching %s", w.source)
	}
	w.logger.Info("watching for changes", "source", w.source, "directories", n, "debounce", w.debounce)
	w.readyOnce.Do(func() { close(w.ready) })

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(fsw, ev) {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			w.fire(ctx)
		}
	}
}

// handle reacts to one event and reports whether it should trigger a backup.
func (w *Watcher) handle(fsw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
		return false
	}

	if w.isIgnoreFile(ev.Name) {
		w.reloadIgnore()
	}

	isDir := false
	if info, err := os.Lstat(ev.Name); err == nil {
		isDir = info.IsDir()
	}
	if !w.included(ev.Name, isDir) {
		return false
	}

	if ev.Has(fsnotify.Create) && isDir {
		if _, err := w.addRecursive(fsw, ev.Name); err != nil {
			w.logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
		}
	}

	w.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
	return true
}

func (w *Watcher) isIgnoreFile(path string) bool {
	if w.matcher == nil || filepath.Dir(path) != w.source {
		return false
	}
	base := filepath.Base(path)
	return base == ignore.GitignoreFile || base == ignore.IgnoreFile
}

// reloadIgnore rereads the ignore files. The previous rules stay in effect
// if the source can no longer be read.
func (w *Watcher) reloadIgnore() {
	m, err := ignore.Load(w.source, ignore.WithMode(w.matcher.Mode()), ignore.WithLogger(w.logger))
	if err != nil {
		w.logger.Warn("cannot reload ignore rules", "error", err)
		return
	}
	w.matcher = m
	w.logger.Debug("ignore rules reloaded", "patterns", len(m.Patterns()))
}

func (w *Watcher) fire(ctx context.Context) {
	err := w.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrDestinationExists):
		w.logger.Info("backup skipped, a backup already exists for this minute")
	default:
		w.logger.Error("backup failed", "error", err)
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish between the event and the walk.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if !w.included(path, true) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// included reports whether path, absolute and inside the source, is
// subject to backup.
func (w *Watcher) included(path string, isDir bool) bool {
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return false
		}
	}
	if w.matcher == nil {
		return true
	}

	rel, err := filepath.Rel(w.source, path)
	if err != nil || rel == "." {
		return err == nil
	}

	top, _, nested := strings.Cut(filepath.ToSlash(rel), "/")
	if w.matcher.Mode() == ignore.ModeFlat {
		return w.matcher.Included(top)
	}
	if nested {
		return w.matcher.IncludedPath(rel, isDir)
	}
	return w.matcher.IncludedPath(top, isDir)
}
