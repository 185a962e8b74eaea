// Package store persists custom backup destinations and backup history in a
// single JSON state file.
//
// The file is read fully into memory by [Store.Load] and rewritten fully on
// every mutation. Each save re-reads the file and replaces only the field it
// owns, so destinations and history written by separate invocations are not
// clobbered.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/paths"
	"github.com/thoreinstein/duplifolder/pkg/fileutil"
)

// statePerm keeps the state file private; it lists local paths.
const statePerm = 0o600

// Store is the authoritative copy of destinations and history with a
// read-through cache. It is safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger
	newID  func() string

	mu     sync.Mutex
	loaded bool
	cache  PersistedConfig
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for non-fatal load problems.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces the destination id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns a Store backed by the file at path. Nothing is read until the
// first access.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		newID:  uuid.NewString,
		cache:  emptyConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Load reads the state file and replaces the cache. A missing or malformed
// file yields an empty structure; Load never fails.
func (s *Store) Load() PersistedConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = s.read()
	s.loaded = true
	return s.snapshot()
}

// Destinations returns the cached destination list in insertion order.
func (s *Store) Destinations() []Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return slices.Clone(s.cache.CustomBackupPaths)
}

// History returns the cached history, newest first.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return slices.Clone(s.cache.BackupHistory)
}

// SaveDestinations replaces the persisted destination list, keeping the
// history currently on disk.
func (s *Store) SaveDestinations(list []Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveDestinations(list)
}

// SaveHistory replaces the persisted history, keeping the destinations
// currently on disk.
func (s *Store) SaveHistory(list []HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveHistory(list)
}

// AppendHistoryEntry prepends entry to the history on disk, keeps the newest
// MaxHistory entries and persists them. Entries recorded by other processes
// since this Store loaded are kept.
func (s *Store) AppendHistoryEntry(entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	onDisk := s.read()
	onDisk.BackupHistory = prependCapped(entry, onDisk.BackupHistory)
	if err := s.write(onDisk); err != nil {
		// The cache keeps the entry so History reflects what this process
		// has done.
		s.ensureLoaded()
		s.cache.BackupHistory = prependCapped(entry, s.cache.BackupHistory)
		return err
	}
	s.cache = onDisk
	s.loaded = true
	return nil
}

// AddDestination appends a destination with a fresh id to the list on disk
// and persists it. Paths are not deduplicated.
func (s *Store) AddDestination(name, path string) (Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Destination{ID: s.newID(), Name: name, Path: path}
	list := append(s.read().CustomBackupPaths, d)
	if err := s.saveDestinations(list); err != nil {
		return Destination{}, err
	}
	return d, nil
}

// ClearDestinations removes every destination and persists the empty list.
func (s *Store) ClearDestinations() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveDestinations([]Destination{})
}

// RemoveDestination deletes the destination with the given id from the list
// on disk. Other ids are unaffected.
func (s *Store) RemoveDestination(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.read().CustomBackupPaths
	idx := slices.IndexFunc(list, func(d Destination) bool { return d.ID == id })
	if idx < 0 {
		return errors.Wrapf(errors.ErrNotFound, "destination %s", id)
	}
	return s.saveDestinations(slices.Delete(list, idx, idx+1))
}

// FindDestination resolves a handle: an exact id, a unique id prefix of at
// least four characters, or an exact name (first match wins).
func (s *Store) FindDestination(handle string) (Destination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Destination{}, false
	}

	list := s.cache.CustomBackupPaths
	for _, d := range list {
		if d.ID == handle {
			return d, true
		}
	}

	if len(handle) >= 4 {
		var match *Destination
		for i := range list {
			if strings.HasPrefix(list[i].ID, handle) {
				if match != nil {
					match = nil
					break
				}
				match = &list[i]
			}
		}
		if match != nil {
			return *match, true
		}
	}

	for _, d := range list {
		if d.Name == handle {
			return d, true
		}
	}
	return Destination{}, false
}

func (s *Store) saveDestinations(list []Destination) error {
	onDisk := s.read()
	onDisk.CustomBackupPaths = list
	if err := s.write(onDisk); err != nil {
		return err
	}
	s.cache = onDisk
	s.loaded = true
	return nil
}

func (s *Store) saveHistory(list []HistoryEntry) error {
	onDisk := s.read()
	onDisk.BackupHistory = list
	if err := s.write(onDisk); err != nil {
		return err
	}
	s.cache = onDisk
	s.loaded = true
	return nil
}

func prependCapped(entry HistoryEntry, history []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	out = append(out, history...)
	if len(out) > MaxHistory {
		out = out[:MaxHistory]
	}
	return out
}

func (s *Store) ensureLoaded() {
	if !s.loaded {
		s.cache = s.read()
		s.loaded = true
	}
}

func (s *Store) snapshot() PersistedConfig {
	return PersistedConfig{
		CustomBackupPaths: slices.Clone(s.cache.CustomBackupPaths),
		BackupHistory:     slices.Clone(s.cache.BackupHistory),
	}
}

// read returns the file contents, or an empty structure when the file is
// absent or unparsable. Destinations saved without an id get one derived
// from their position and contents, so it is the same on every read.
func (s *Store) read() PersistedConfig {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("state file unreadable, starting empty", "path", s.path, "error", err)
		}
		return emptyConfig()
	}

	var cfg PersistedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("state file malformed, starting empty", "path", s.path, "error", err)
		return emptyConfig()
	}

	if cfg.CustomBackupPaths == nil {
		cfg.CustomBackupPaths = []Destination{}
	}
	if cfg.BackupHistory == nil {
		cfg.BackupHistory = []HistoryEntry{}
	}
	for i := range cfg.CustomBackupPaths {
		if cfg.CustomBackupPaths[i].ID == "" {
			cfg.CustomBackupPaths[i].ID = legacyID(i, cfg.CustomBackupPaths[i])
		}
	}
	if len(cfg.BackupHistory) > MaxHistory {
		cfg.BackupHistory = cfg.BackupHistory[:MaxHistory]
	}
	return cfg
}

func legacyID(index int, d Destination) string {
	key := fmt.Sprintf("%d\x00%s\x00%s", index, d.Name, d.Path)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func (s *Store) write(cfg PersistedConfig) error {
	if err := paths.EnsureDir(filepath.Dir(s.path), 0); err != nil {
		return &errors.PersistenceError{Path: s.path, Err: err}
	}
	if err := fileutil.AtomicWriteJSON(s.path, cfg, statePerm); err != nil {
		return &errors.PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
