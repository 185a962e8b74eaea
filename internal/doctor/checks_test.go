package doctor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/ignore"
)

func TestConfigCheck(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("ignore_mode: flat\n"), 0o600))

	tests := []struct {
		name    string
		path    string
		loadErr error
		want    Severity
	}{
		{"valid file", existing, nil, SeverityPass},
		{"no file", filepath.Join(t.TempDir(), "config.yaml"), nil, SeverityInfo},
		{"load error", existing, errors.New("validating config: bad"), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewConfigCheck(tt.path, tt.loadErr).Run()
			assert.Equal(t, tt.want, got.Status, got.Message)
			assert.Equal(t, "config-file", got.Name)
		})
	}
}

func TestStateFileCheck(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		got := NewStateFileCheck(filepath.Join(dir, "none.json")).Run()
		assert.Equal(t, SeverityInfo, got.Status)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

		got := NewStateFileCheck(path).Run()
		assert.Equal(t, SeverityWarning, got.Status)
		assert.NotEmpty(t, got.FixHint)
	})

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "good.json")
		content := `{"customBackupPaths":[{"id":"1","name":"here","path":"` + filepath.ToSlash(dir) + `"}],"backupHistory":[]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		got := NewStateFileCheck(path).Run()
		assert.Equal(t, SeverityPass, got.Status, got.Message)
		assert.Equal(t, 1, got.Details["destinations"])
	})

	t.Run("missing destination", func(t *testing.T) {
		path := filepath.Join(dir, "missing-dest.json")
		content := `{"customBackupPaths":[{"name":"gone","path":"` + filepath.ToSlash(filepath.Join(dir, "gone")) + `"}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		got := NewStateFileCheck(path).Run()
		assert.Equal(t, SeverityInfo, got.Status)
		assert.Len(t, got.Details["missing_destinations"], 1)
	})
}

func TestStateFileCheck_FixesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	require.NoError(t, os.Chmod(path, 0o644))

	check := NewStateFileCheck(path)
	got := check.Run()
	assert.Equal(t, SeverityWarning, got.Status)
	assert.True(t, got.Fixable)
	require.True(t, check.CanFix())

	results := check.Fix()
	require.Len(t, results, 1)
	assert.True(t, results[0].Fixed, results[0].Description)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Equal(t, SeverityPass, check.Run().Status)
	assert.False(t, check.CanFix())
}

func TestBackupRootCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	resolveTo := func(p string) func() (string, error) {
		return func() (string, error) { return p, nil }
	}

	tests := []struct {
		name    string
		resolve func() (string, error)
		want    Severity
		fixable bool
	}{
		{"writable", resolveTo(dir), SeverityPass, false},
		{"missing", resolveTo(filepath.Join(dir, "Backups")), SeverityInfo, true},
		{"file", resolveTo(file), SeverityError, false},
		{"unresolvable", func() (string, error) { return "", errors.ErrUnsupportedEnvironment }, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewBackupRootCheck(tt.resolve)
			got := check.Run()
			assert.Equal(t, tt.want, got.Status, got.Message)
			assert.Equal(t, tt.fixable, check.CanFix())
		})
	}
}

func TestBackupRootCheck_FixCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Desktop", "Backups")
	check := NewBackupRootCheck(func() (string, error) { return root, nil })

	check.Run()
	require.True(t, check.CanFix())

	results := check.Fix()
	require.Len(t, results, 1)
	assert.True(t, results[0].Fixed)
	assert.DirExists(t, root)
	assert.Equal(t, SeverityPass, check.Run().Status)
}

func TestIgnoreRulesCheck(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.log"), []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, ignore.IgnoreFile), []byte("*.log\n"), 0o600))

	got := NewIgnoreRulesCheck(src, ignore.ModeFlat).Run()
	assert.Equal(t, SeverityPass, got.Status)
	assert.Equal(t, []string{"*.log"}, got.Details["patterns"])
	assert.Equal(t, []string{"b.log"}, got.Details["excluded"])
}

func TestIgnoreRulesCheck_EverythingExcluded(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, ignore.IgnoreFile), []byte("*\n"), 0o600))

	got := NewIgnoreRulesCheck(src, ignore.ModeFlat).Run()
	assert.Equal(t, SeverityWarning, got.Status)
}

func TestIgnoreRulesCheck_MissingSource(t *testing.T) {
	got := NewIgnoreRulesCheck(filepath.Join(t.TempDir(), "nope"), ignore.ModeFlat).Run()
	assert.Equal(t, SeverityError, got.Status)
}
