package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/paths"
)

// Fixer is an optional interface that checks can implement to support auto-remediation.
// Checks that implement Fixer can fix issues they detect when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run() to check if there are issues that can be fixed.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory that was targeted for fixing.
	Path string

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool

	// Description explains what was fixed or why it couldn't be fixed.
	Description string

	// Error contains the error if the fix failed.
	Error error
}

// pathIssue is a permission problem on one path.
type pathIssue struct {
	Path    string
	Mode    os.FileMode
	Problem string
	Fixable bool
}

// PermissionFixer tightens permissions found too wide by a check.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	for _, issue := range f.issues {
		if issue.Fixable {
			return true
		}
	}
	return false
}

// Fix applies the target mode to each fixable issue.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, len(f.issues))
	for _, issue := range f.issues {
		if !issue.Fixable {
			continue
		}

		result := FixResult{Path: issue.Path}
		if err := os.Chmod(issue.Path, issue.Mode); err != nil {
			result.Description = fmt.Sprintf("failed to chmod %s: %v", formatOctal(issue.Mode), err)
			result.Error = errors.Wrapf(err, "chmod %s %s", formatOctal(issue.Mode), issue.Path)
		} else {
			result.Fixed = true
			result.Description = "chmod " + formatOctal(issue.Mode)
		}
		results = append(results, result)
	}
	return results
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// DirectoryFixer creates a directory a check found missing.
type DirectoryFixer struct {
	dir string
}

// CanFix returns true if a missing directory was recorded.
func (f *DirectoryFixer) CanFix() bool { return f.dir != "" }

// Fix creates the missing directory.
func (f *DirectoryFixer) Fix() []FixResult {
	if f.dir == "" {
		return nil
	}
	result := FixResult{Path: f.dir}
	if err := paths.EnsureDir(f.dir, 0o755); err != nil {
		result.Description = fmt.Sprintf("failed to create directory: %v", err)
		result.Error = errors.Wrapf(err, "mkdir %s", f.dir)
		return []FixResult{result}
	}
	result.Fixed = true
	result.Description = "created directory"
	return []FixResult{result}
}
