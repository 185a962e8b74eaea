package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/thoreinstein/duplifolder/internal/ignore"
	"github.com/thoreinstein/duplifolder/internal/store"
	"github.com/thoreinstein/duplifolder/pkg/fileutil"
)

// statePerm is the expected permission of the state file.
const statePerm os.FileMode = 0o600

// ConfigCheck reports whether the settings file loaded and validated.
type ConfigCheck struct {
	path    string
	loadErr error
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check from the outcome of config.Load.
// path is the settings file location, loadErr the error Load returned.
func NewConfigCheck(path string, loadErr error) *ConfigCheck {
	return &ConfigCheck{path: path, loadErr: loadErr}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string { return "config-file" }

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string { return "config" }

// Run executes the check.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}

	switch {
	case c.loadErr != nil:
		result.Status = SeverityError
		result.Message = c.loadErr.Error()
		result.FixHint = "Edit the file with: duplifolder config edit"
	case !fileExists(c.path):
		result.Status = SeverityInfo
		result.Message = "no settings file, using defaults"
	default:
		result.Status = SeverityPass
		result.Message = "settings file is valid"
	}
	return result
}

// StateFileCheck validates the destinations/history state file.
type StateFileCheck struct {
	PermissionFixer
	path string
}

var _ Check = (*StateFileCheck)(nil)
var _ Fixer = (*StateFileCheck)(nil)

// NewStateFileCheck creates a check for the state file at path.
func NewStateFileCheck(path string) *StateFileCheck {
	return &StateFileCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *StateFileCheck) Name() string { return "state-file" }

// Category returns the grouping for this check.
func (c *StateFileCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *StateFileCheck) Run() *CheckResult {
	c.setIssues(nil)
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}

	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		result.Status = SeverityInfo
		result.Message = "no state file yet, it is created on the first backup"
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat state file: %v", err)
		return result
	}

	data, err := fileutil.ReadFileWithLimit(c.path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read state file: %v", err)
		return result
	}

	var cfg store.PersistedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("state file is not valid JSON and will be treated as empty: %v", err)
		result.FixHint = "Move " + c.path + " aside to start fresh"
		return result
	}

	result.Details["destinations"] = len(cfg.CustomBackupPaths)
	result.Details["history"] = len(cfg.BackupHistory)

	var missing []string
	for _, d := range cfg.CustomBackupPaths {
		if !dirExists(d.Path) {
			missing = append(missing, d.Path)
		}
	}
	if len(missing) > 0 {
		result.Details["missing_destinations"] = missing
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&^statePerm != 0 {
		c.setIssues([]pathIssue{{
			Path:    c.path,
			Mode:    statePerm,
			Problem: fmt.Sprintf("state file mode %s is wider than %s", formatOctal(info.Mode().Perm()), formatOctal(statePerm)),
			Fixable: true,
		}})
		result.Status = SeverityWarning
		result.Message = c.issues[0].Problem
		result.Fixable = true
		result.FixHint = fmt.Sprintf("chmod %s %s", formatOctal(statePerm), c.path)
		return result
	}

	if len(missing) > 0 {
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("%d saved destination(s) do not exist yet and will be created on use", len(missing))
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d destination(s), %d history entries", len(cfg.CustomBackupPaths), len(cfg.BackupHistory))
	return result
}

// BackupRootCheck validates the root used by default backups.
type BackupRootCheck struct {
	DirectoryFixer
	resolve func() (string, error)
}

var _ Check = (*BackupRootCheck)(nil)
var _ Fixer = (*BackupRootCheck)(nil)

// NewBackupRootCheck creates a check using resolve to find the root.
func NewBackupRootCheck(resolve func() (string, error)) *BackupRootCheck {
	return &BackupRootCheck{resolve: resolve}
}

// Name returns the unique identifier for this check.
func (c *BackupRootCheck) Name() string { return "backup-root" }

// Category returns the grouping for this check.
func (c *BackupRootCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *BackupRootCheck) Run() *CheckResult {
	c.dir = ""
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	root, err := c.resolve()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "Set one with: duplifolder config set backup_root <dir>"
		return result
	}
	result.Details = map[string]any{"path": root}

	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		c.dir = root
		result.Status = SeverityInfo
		result.Message = "backup root does not exist yet, it is created on the first backup"
		result.Fixable = true
		result.FixHint = "mkdir -p " + root
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat backup root: %v", err)
		return result
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = "backup root is a file, not a directory"
		return result
	}

	if !isDirectoryWritable(root) {
		result.Status = SeverityError
		result.Message = "backup root is not writable"
		result.FixHint = "chmod u+w " + root
		return result
	}

	result.Status = SeverityPass
	result.Message = "backup root is writable"
	return result
}

// IgnoreRulesCheck reports the ignore rules that apply to a source folder.
type IgnoreRulesCheck struct {
	source string
	mode   ignore.Mode
}

var _ Check = (*IgnoreRulesCheck)(nil)

// NewIgnoreRulesCheck creates a check for source using mode.
func NewIgnoreRulesCheck(source string, mode ignore.Mode) *IgnoreRulesCheck {
	return &IgnoreRulesCheck{source: source, mode: mode}
}

// Name returns the unique identifier for this check.
func (c *IgnoreRulesCheck) Name() string { return "ignore-rules" }

// Category returns the grouping for this check.
func (c *IgnoreRulesCheck) Category() string { return "source" }

// Run executes the check.
func (c *IgnoreRulesCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"source": c.source, "mode": string(c.mode)},
	}

	m, err := ignore.Load(c.source, ignore.WithMode(c.mode))
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}

	included, excluded, err := m.Partition()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}

	result.Details["patterns"] = m.Patterns()
	result.Details["excluded"] = excluded

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d rule(s), %d of %d entries excluded",
		len(m.Patterns()), len(excluded), len(included)+len(excluded))
	if len(included) == 0 && len(excluded) > 0 {
		result.Status = SeverityWarning
		result.Message = "every entry is excluded, backups will be empty"
		result.FixHint = "Review " + filepath.Join(c.source, ignore.IgnoreFile)
	}
	return result
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) bool {
	f, err := os.CreateTemp(path, ".duplifolder-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func formatOctal(mode os.FileMode) string {
	return fmt.Sprintf("%04o", uint32(mode.Perm()))
}
