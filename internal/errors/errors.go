package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrInvalidSource indicates there is no usable source directory.
	ErrInvalidSource = crdb.New("invalid source directory")

	// ErrInvalidDestination indicates a destination that is empty or cannot be created.
	ErrInvalidDestination = crdb.New("invalid destination")

	// ErrDestinationExists indicates the timestamped backup folder is already present.
	ErrDestinationExists = crdb.New("destination already exists")

	// ErrCopy indicates an entry failed to copy.
	ErrCopy = crdb.New("copy failed")

	// ErrPersistence indicates the state file could not be read or written.
	ErrPersistence = crdb.New("persistence failed")

	// ErrUnsupportedEnvironment indicates the default backup root cannot be
	// determined on this system.
	ErrUnsupportedEnvironment = crdb.New("unsupported environment")
)

// ExitError carries the process exit code for an error, plus an optional
// next step printed under the message. A nil Err exits silently, as the
// doctor command does after printing its own report.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewExitError returns an ExitError without a suggestion.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError marks err as caused by input, settings or the source and
// destination the user chose.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError marks err as an I/O failure during a copy or while saving
// state.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError is a user error pointing at the doctor command.
func NewConfigError(err error) *ExitError {
	return NewUserError(err, "Run: duplifolder doctor")
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
