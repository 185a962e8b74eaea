package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/ignore"
)

// ErrInvalidPath indicates a path value is malformed.
var ErrInvalidPath = errors.New("invalid path")

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if _, err := ignore.ParseMode(cfg.IgnoreMode); err != nil {
		errs = append(errs, &FieldError{Field: KeyIgnoreMode, Value: cfg.IgnoreMode, Err: err})
	}

	if err := validatePath(cfg.BackupRoot); err != nil {
		errs = append(errs, &FieldError{Field: KeyBackupRoot, Value: cfg.BackupRoot, Err: err})
	}
	if err := validatePath(cfg.StateFile); err != nil {
		errs = append(errs, &FieldError{Field: KeyStateFile, Value: cfg.StateFile, Err: err})
	}

	return errs
}

// ValidateValue checks a single key/value pair as written by "config set".
func ValidateValue(key, value string) error {
	if !ValidKey(key) {
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown key %q", key)
	}
	cfg := &Config{}
	switch key {
	case KeyBackupRoot:
		cfg.BackupRoot = value
	case KeyIgnoreMode:
		cfg.IgnoreMode = value
	case KeyStateFile:
		cfg.StateFile = value
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError reports an invalid value for one setting.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
