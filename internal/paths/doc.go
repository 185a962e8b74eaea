// Package paths resolves the per-user locations duplifolder reads and writes.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// compliance:
//
//	| Purpose        | Location                                     |
//	|----------------|----------------------------------------------|
//	| settings       | <ConfigHome>/duplifolder/config.yaml         |
//	| state          | <StateHome>/duplifolder/state.json           |
//	| default backup | <Desktop>/Backups                            |
//
// On Windows the default backup root prefers the OneDrive desktop when
// OneDrive is configured, matching where Explorer shows "Desktop".
//
// [DefaultBackupRoot] returns [errors.ErrUnsupportedEnvironment] when neither
// a desktop nor a home directory can be determined.
package paths
