package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/duplifolder/internal/backup"
	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/logging"
	"github.com/thoreinstein/duplifolder/internal/store"
)

func newTestCatalog(t *testing.T, opts ...Option) (*Catalog, *store.Store, string) {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "state.json")
	logger := logging.ForTest(t)
	st := store.New(statePath, store.WithLogger(logger))
	root := filepath.Join(t.TempDir(), "Backups")

	base := []Option{
		WithLogger(logger),
		WithDefaultRoot(root),
		WithEngineOptions(backup.WithClock(func() time.Time {
			return time.Date(2024, time.December, 31, 9, 5, 0, 0, time.Local)
		})),
	}
	return New(st, append(base, opts...)...), st, root
}

func newSource(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	return src
}

func TestRunDefaultBackup(t *testing.T) {
	c, st, root := newTestCatalog(t)
	src := newSource(t)

	res, err := c.RunDefaultBackup(context.Background(), src)
	require.NoError(t, err)

	want := filepath.Join(root, "proj - 12312024-09.05")
	assert.Equal(t, want, res.DestinationPath)
	assert.FileExists(t, filepath.Join(want, "a.txt"))

	reloaded := store.New(st.Path())
	history := reloaded.History()
	require.Len(t, history, 1)
	assert.Equal(t, store.HistoryEntry{Timestamp: "12312024-09.05", Destination: want}, history[0])
	assert.Equal(t, history, c.History())
}

func TestRunCustomBackup(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	src := newSource(t)
	dest := t.TempDir()

	res, err := c.RunCustomBackup(context.Background(), src, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, filepath.Dir(res.DestinationPath))

	_, err = c.RunCustomBackup(context.Background(), src, "")
	assert.True(t, errors.Is(err, errors.ErrInvalidDestination))
}

func TestRunDestinationBackup(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	src := newSource(t)
	work := filepath.Join(t.TempDir(), "work")
	home := filepath.Join(t.TempDir(), "home")

	w, err := c.AddCustomDestination("Work", work)
	require.NoError(t, err)
	_, err = c.AddCustomDestination("Home", home)
	require.NoError(t, err)

	tests := []struct {
		name   string
		handle string
		root   string
	}{
		{"by name", "Home", home},
		{"by id", w.ID, work},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.RunDestinationBackup(context.Background(), src, tt.handle)
			require.NoError(t, err)
			assert.Equal(t, tt.root, filepath.Dir(res.DestinationPath))
		})
	}

	_, err = c.RunDestinationBackup(context.Background(), src, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestAddCustomDestination(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	dest := filepath.Join(t.TempDir(), "mnt", "work")

	d, err := c.AddCustomDestination("Work", dest)
	require.NoError(t, err)
	assert.Equal(t, "Work", d.Name)
	assert.Equal(t, dest, d.Path)
	assert.NotEmpty(t, d.ID)

	got := c.Destinations()
	require.Len(t, got, 1)
	assert.Equal(t, d, got[0])

	assert.Equal(t, got, store.New(st.Path()).Destinations())
}

func TestAddCustomDestination_DefaultName(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	dest := filepath.Join(t.TempDir(), "offsite")

	d, err := c.AddCustomDestination("  ", dest)
	require.NoError(t, err)
	assert.Equal(t, "offsite", d.Name)
}

func TestAddCustomDestination_Invalid(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"file", file},
		{"below file", filepath.Join(file, "sub")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.AddCustomDestination("x", tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidDestination))
		})
	}
	assert.Empty(t, c.Destinations())
}

func TestClearCustomDestinations(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	_, err := c.AddCustomDestination("A", t.TempDir())
	require.NoError(t, err)
	_, err = c.AddCustomDestination("B", t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.ClearCustomDestinations())
	assert.Empty(t, c.Destinations())
	assert.Empty(t, store.New(st.Path()).Destinations())
}

func TestRemoveCustomDestination(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	a, err := c.AddCustomDestination("A", t.TempDir())
	require.NoError(t, err)
	b, err := c.AddCustomDestination("B", t.TempDir())
	require.NoError(t, err)

	removed, err := c.RemoveCustomDestination("A")
	require.NoError(t, err)
	assert.Equal(t, a, removed)
	assert.Equal(t, []store.Destination{b}, c.Destinations())

	_, err = c.RemoveCustomDestination("A")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRunBackups_Concurrent(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	src := newSource(t)

	roots := make([]string, 4)
	for i := range roots {
		roots[i] = t.TempDir()
	}

	var wg sync.WaitGroup
	errs := make([]error, len(roots))
	for i, root := range roots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.RunCustomBackup(context.Background(), src, root)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, c.History(), len(roots))
}

func TestExport(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	src := newSource(t)
	_, err := c.AddCustomDestination("Work", t.TempDir())
	require.NoError(t, err)
	_, err = c.RunDefaultBackup(context.Background(), src)
	require.NoError(t, err)

	want := c.Snapshot()
	require.Len(t, want.Destinations, 1)
	require.Len(t, want.History, 1)

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{FormatJSON, json.Unmarshal},
		{FormatYAML, yaml.Unmarshal},
		{FormatTOML, toml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Export(&buf, tt.format))

			var got Snapshot
			require.NoError(t, tt.decode(buf.Bytes(), &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	c, _, _ := newTestCatalog(t)

	err := c.Export(&bytes.Buffer{}, "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
