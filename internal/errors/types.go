package errors

import "fmt"

// InvalidSourceError reports a source directory that is missing or not a directory.
type InvalidSourceError struct {
	Path string
	Err  error
}

func (e *InvalidSourceError) Error() string {
	if e.Path == "" {
		return "no source directory"
	}
	if e.Err == nil {
		return fmt.Sprintf("invalid source directory %s", e.Path)
	}
	return fmt.Sprintf("invalid source directory %s: %v", e.Path, e.Err)
}

func (e *InvalidSourceError) Unwrap() error { return e.Err }

// Is matches ErrInvalidSource.
func (e *InvalidSourceError) Is(target error) bool { return target == ErrInvalidSource }

// InvalidDestinationError reports a destination that is empty or cannot be created.
type InvalidDestinationError struct {
	Path string
	Err  error
}

func (e *InvalidDestinationError) Error() string {
	if e.Path == "" {
		return "destination path is required"
	}
	if e.Err == nil {
		return fmt.Sprintf("invalid destination %s", e.Path)
	}
	return fmt.Sprintf("invalid destination %s: %v", e.Path, e.Err)
}

func (e *InvalidDestinationError) Unwrap() error { return e.Err }

// Is matches ErrInvalidDestination.
func (e *InvalidDestinationError) Is(target error) bool { return target == ErrInvalidDestination }

// CopyError identifies the top-level entry that failed to copy.
type CopyError struct {
	Entry string
	Err   error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s: %v", e.Entry, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Is matches ErrCopy.
func (e *CopyError) Is(target error) bool { return target == ErrCopy }

// PersistenceError reports a failed read or write of the state file.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NotFoundError reports a path that does not exist or cannot be read.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: not found", e.Path)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
