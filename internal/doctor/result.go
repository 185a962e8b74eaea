// Package doctor runs diagnostic checks over the duplifolder environment:
// settings, the state file, the default backup root and ignore rules.
package doctor

import (
	"encoding/json"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// Severity ranks a check result. Higher is worse.
type Severity int

const (
	SeverityPass Severity = iota
	// SeverityInfo is worth showing but needs no action.
	SeverityInfo
	// SeverityWarning does not stop backups but probably surprises the user.
	SeverityWarning
	// SeverityError stops backups from working.
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalJSON writes the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the names written by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return errors.Wrap(err, "decoding severity")
	}
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
			return nil
		}
	}
	return errors.Newf("unknown severity %q", name)
}

// CheckResult is what one check found.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details carries check-specific values such as the inspected path.
	Details map[string]any `json:"details,omitempty"`

	// Fixable is set when "doctor --fix" can resolve the problem.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// Problem reports whether the result needs the user's attention.
func (r *CheckResult) Problem() bool {
	return r.Status >= SeverityWarning
}

// Summary counts results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}
