// Package catalog is the entry point a front end uses to run backups and
// manage custom destinations. It ties the backup engine to the state store
// and serializes backups so only one runs at a time.
package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thoreinstein/duplifolder/internal/backup"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/paths"
	"github.com/thoreinstein/duplifolder/internal/store"
)

// Catalog runs backups against the default root, an ad-hoc path, or a
// saved destination, and manages the saved destination list.
type Catalog struct {
	store       *store.Store
	logger      *slog.Logger
	defaultRoot func() (string, error)
	engineOpts  []backup.Option

	// mu serializes backups; overlapping calls queue.
	mu sync.Mutex
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger passed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultRoot fixes the root used by RunDefaultBackup. An empty root
// falls back to paths.DefaultBackupRoot.
func WithDefaultRoot(root string) Option {
	return func(c *Catalog) {
		if strings.TrimSpace(root) == "" {
			return
		}
		c.defaultRoot = func() (string, error) { return paths.Absolute(root) }
	}
}

// WithEngineOptions sets options applied to every backup run.
func WithEngineOptions(opts ...backup.Option) Option {
	return func(c *Catalog) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

// New returns a Catalog over st.
func New(st *store.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:       st,
		logger:      slog.Default(),
		defaultRoot: paths.DefaultBackupRoot,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultRoot returns the root RunDefaultBackup writes to.
func (c *Catalog) DefaultRoot() (string, error) {
	return c.defaultRoot()
}

// RunDefaultBackup backs source up under the default backup root.
func (c *Catalog) RunDefaultBackup(ctx context.Context, source string, opts ...backup.Option) (*backup.Result, error) {
	root, err := c.defaultRoot()
	if err != nil {
		return nil, errors.Wrap(err, "resolving default backup root")
	}
	return c.run(ctx, source, root, opts)
}

// RunCustomBackup backs source up under destinationPath.
func (c *Catalog) RunCustomBackup(ctx context.Context, source, destinationPath string, opts ...backup.Option) (*backup.Result, error) {
	if strings.TrimSpace(destinationPath) == "" {
		return nil, &errors.InvalidDestinationError{}
	}
	return c.run(ctx, source, paths.ExpandHome(destinationPath), opts)
}

// RunDestinationBackup backs source up under the saved destination named by
// handle (id, id prefix or name).
func (c *Catalog) RunDestinationBackup(ctx context.Context, source, handle string, opts ...backup.Option) (*backup.Result, error) {
	d, err := c.Resolve(handle)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, source, d.Path, opts)
}

// Resolve looks up a saved destination by handle.
func (c *Catalog) Resolve(handle string) (store.Destination, error) {
	d, ok := c.store.FindDestination(handle)
	if !ok {
		return store.Destination{}, &errors.NotFoundError{Path: "destination " + handle}
	}
	return d, nil
}

func (c *Catalog) run(ctx context.Context, source, root string, opts []backup.Option) (*backup.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]backup.Option, 0, len(c.engineOpts)+len(opts)+1)
	all = append(all, backup.WithLogger(c.logger))
	all = append(all, c.engineOpts...)
	all = append(all, opts...)

	return backup.NewEngine(c.store, all...).Backup(ctx, source, root)
}

// AddCustomDestination saves a destination. path is made absolute; name
// defaults to its base name. The path must be a directory or creatable as
// one: its nearest existing ancestor has to be a directory.
func (c *Catalog) AddCustomDestination(name, path string) (store.Destination, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return store.Destination{}, &errors.InvalidDestinationError{}
	}

	abs, err := paths.Absolute(path)
	if err != nil {
		return store.Destination{}, &errors.InvalidDestinationError{Path: path, Err: err}
	}
	if err := checkCreatable(abs); err != nil {
		return store.Destination{}, &errors.InvalidDestinationError{Path: abs, Err: err}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = filepath.Base(abs)
	}

	d, err := c.store.AddDestination(name, abs)
	if err != nil {
		return store.Destination{}, err
	}
	c.logger.Info("destination added", "id", d.ID, "name", d.Name, "path", d.Path)
	return d, nil
}

// ClearCustomDestinations removes every saved destination.
func (c *Catalog) ClearCustomDestinations() error {
	if err := c.store.ClearDestinations(); err != nil {
		return err
	}
	c.logger.Info("destinations cleared")
	return nil
}

// RemoveCustomDestination removes the destination named by handle and
// returns it.
func (c *Catalog) RemoveCustomDestination(handle string) (store.Destination, error) {
	d, err := c.Resolve(handle)
	if err != nil {
		return store.Destination{}, err
	}
	if err := c.store.RemoveDestination(d.ID); err != nil {
		return store.Destination{}, err
	}
	c.logger.Info("destination removed", "id", d.ID, "name", d.Name)
	return d, nil
}

// History returns backup history, newest first.
func (c *Catalog) History() []store.HistoryEntry {
	return c.store.History()
}

// Destinations returns saved destinations in insertion order.
func (c *Catalog) Destinations() []store.Destination {
	return c.store.Destinations()
}

func checkCreatable(path string) error {
	for p := path; ; p = filepath.Dir(p) {
		info, err := os.Stat(p)
		if err == nil {
			if !info.IsDir() {
				return errors.Newf("%s is not a directory", p)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return err
		}
		if parent := filepath.Dir(p); parent == p {
			return err
		}
	}
}
