package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_As(t *testing.T) {
	err := fmt.Errorf("command failed: %w", NewSystemError(ErrPersistence, "check disk"))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatal("errors.As() should find ExitError")
	}
	if exitErr.Code != ExitSystem {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitSystem)
	}
	if exitErr.Suggestion != "check disk" {
		t.Errorf("Suggestion = %q, want %q", exitErr.Suggestion, "check disk")
	}
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name     string
		err      error
		sentinel error
		wantMsg  string
	}{
		{
			name:     "invalid source",
			err:      &InvalidSourceError{Path: "/nope", Err: cause},
			sentinel: ErrInvalidSource,
			wantMsg:  "invalid source directory /nope: permission denied",
		},
		{
			name:     "missing source",
			err:      &InvalidSourceError{},
			sentinel: ErrInvalidSource,
			wantMsg:  "no source directory",
		},
		{
			name:     "empty destination",
			err:      &InvalidDestinationError{},
			sentinel: ErrInvalidDestination,
			wantMsg:  "destination path is required",
		},
		{
			name:     "copy",
			err:      &CopyError{Entry: "src", Err: cause},
			sentinel: ErrCopy,
			wantMsg:  "copying src: permission denied",
		},
		{
			name:     "persistence",
			err:      &PersistenceError{Path: "/state.json", Err: cause},
			sentinel: ErrPersistence,
			wantMsg:  "persisting /state.json: permission denied",
		},
		{
			name:     "not found",
			err:      &NotFoundError{Path: "/proj"},
			sentinel: ErrNotFound,
			wantMsg:  "/proj: not found",
		},
		{
			name:     "not found with cause",
			err:      &NotFoundError{Path: "/proj", Err: cause},
			sentinel: ErrNotFound,
			wantMsg:  "/proj: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("Is(%v, sentinel) = false, want true", tt.err)
			}
			wrapped := Wrap(tt.err, "running backup")
			if !Is(wrapped, tt.sentinel) {
				t.Errorf("wrapped error lost sentinel: %v", wrapped)
			}
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("stdlib errors.Is lost sentinel: %v", wrapped)
			}
		})
	}
}

func TestTypedErrors_UnwrapCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(&CopyError{Entry: "a.txt", Err: cause}, "backup")

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through CopyError")
	}

	var copyErr *CopyError
	if !As(err, &copyErr) {
		t.Fatal("As() should find CopyError")
	}
	if copyErr.Entry != "a.txt" {
		t.Errorf("Entry = %q, want %q", copyErr.Entry, "a.txt")
	}
}

func TestWrap_NilIsNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestExitCodeConstants(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitUser", ExitUser, 1},
		{"ExitSystem", ExitSystem, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}
