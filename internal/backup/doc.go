// Package backup copies a source folder into a new timestamped folder under
// a destination root.
//
// Each run creates
//
//	<root>/<source basename> - <MMDDYYYY-HH.MM>/
//
// and copies every top-level entry of the source that the folder's ignore
// files (see package ignore) do not exclude. Directories are copied
// recursively with their permissions; symbolic links are recreated as
// links. Nothing is compressed, deduplicated or verified.
//
// # Running a backup
//
//	st := store.New(paths.StateFile())
//	eng := backup.NewEngine(st, backup.WithLogger(logger))
//	res, err := eng.Backup(ctx, "/home/me/project", "/home/me/Desktop/Backups")
//
// A successful run appends a history entry through the [HistoryRecorder].
// If the copy succeeded but history could not be saved, Backup still
// returns a nil error and sets [Result.PersistErr].
//
// # Errors
//
//   - *errors.InvalidSourceError: source missing, unreadable or not a folder
//   - *errors.InvalidDestinationError: root empty, folder already present
//     (wrapping errors.ErrDestinationExists), or folder not creatable
//   - *errors.CopyError: the first entry that failed to copy; entries
//     copied before it are left in place
package backup
