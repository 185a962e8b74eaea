package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// AppName names the per-user config and state directories.
const AppName = "duplifolder"

// StateFileName is the file holding custom destinations and backup history.
const StateFileName = "state.json"

// BackupsDirName is the folder created on the desktop for default backups.
const BackupsDirName = "Backups"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the permission for newly created state directories.
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home")
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
func StateHome() string {
	return xdg.StateHome
}

// ConfigDirEnv overrides the settings directory.
const ConfigDirEnv = "DUPLIFOLDER_CONFIG_DIR"

// ConfigDir returns $DUPLIFOLDER_CONFIG_DIR when set, else
// <ConfigHome>/duplifolder.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// StateFile returns the default location of the persisted state file.
func StateFile() string {
	return filepath.Join(StateHome(), AppName, StateFileName)
}

// DefaultBackupRoot returns the directory under which default backups are
// created. It returns ErrUnsupportedEnvironment when no desktop or home
// directory is available.
func DefaultBackupRoot() (string, error) {
	home, _ := os.UserHomeDir()
	return defaultBackupRoot(runtime.GOOS, os.Getenv, xdg.UserDirs.Desktop, home)
}

func defaultBackupRoot(goos string, getenv func(string) string, desktop, home string) (string, error) {
	if goos == "windows" {
		if od := getenv("OneDrive"); od != "" {
			oneDriveDesktop := filepath.Join(od, "Desktop")
			if isDir(oneDriveDesktop) {
				return filepath.Join(oneDriveDesktop, BackupsDirName), nil
			}
		}
	}

	if desktop != "" {
		return filepath.Join(desktop, BackupsDirName), nil
	}
	if home != "" {
		return filepath.Join(home, "Desktop", BackupsDirName), nil
	}

	return "", errors.Wrapf(errors.ErrUnsupportedEnvironment,
		"cannot determine a default backup root on %s", goos)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Absolute expands ~ and returns a cleaned absolute path.
func Absolute(path string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	return abs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
