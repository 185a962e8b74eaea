package doctor

import (
	"time"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// Check is one diagnostic.
type Check interface {
	// Name is a stable identifier, e.g. "state-file".
	Name() string

	// Category groups checks in output, e.g. "filesystem".
	Category() string

	Run() *CheckResult
}

// Runner runs checks in the order they were added.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner returns an empty Runner.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// AddCheck appends c.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run runs every check and collects the results.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, c := range r.checks {
		res := c.Run()
		report.Results = append(report.Results, res)
		report.Summary.add(res.Status)
	}
	return report
}

// Fixers returns the checks whose last run found something they can repair.
func (r *Runner) Fixers() []Fixer {
	var out []Fixer
	for _, c := range r.checks {
		if f, ok := c.(Fixer); ok && f.CanFix() {
			out = append(out, f)
		}
	}
	return out
}

// Report is the outcome of one Runner.Run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// ExitCode maps the report to the doctor command's exit status: system
// failure on errors, user failure on warnings, success otherwise.
func (r *Report) ExitCode() int {
	switch {
	case r.HasErrors():
		return errors.ExitSystem
	case r.HasWarnings():
		return errors.ExitUser
	default:
		return errors.ExitSuccess
	}
}
