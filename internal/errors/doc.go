// Package errors provides error handling conventions for duplifolder.
//
// This package defines sentinel errors for the backup failure taxonomy,
// typed errors that carry the failing path or entry, an ExitError type for
// CLI exit code handling, and thin wrappers over github.com/cockroachdb/errors
// so callers only import one errors package.
//
// # Sentinel Errors
//
// Typed errors match their sentinel with [Is]:
//
//	var copyErr *errors.CopyError
//	if errors.As(err, &copyErr) {
//	    fmt.Println("failed entry:", copyErr.Entry)
//	}
//	if errors.Is(err, errors.ErrPersistence) {
//	    // backup completed, history not saved
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
package errors
