package doctor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

type stubCheck struct {
	name   string
	result *CheckResult
}

func (s *stubCheck) Name() string      { return s.name }
func (s *stubCheck) Category() string  { return "test" }
func (s *stubCheck) Run() *CheckResult { return s.result }
func (s *stubCheck) CanFix() bool      { return s.result.Fixable }
func (s *stubCheck) Fix() []FixResult  { return nil }

func newStub(name string, sev Severity) *stubCheck {
	return &stubCheck{name: name, result: &CheckResult{Name: name, Status: sev}}
}

func TestNewRunner(t *testing.T) {
	r := NewRunner()
	if r == nil {
		t.Fatal("NewRunner returned nil")
	}
	if len(r.checks) != 0 {
		t.Errorf("NewRunner().checks = %d, want 0", len(r.checks))
	}
}

func TestRunner_AddCheck_OrderPreserved(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		r.AddCheck(newStub(name, SeverityPass))
	}

	for i, want := range names {
		if r.checks[i].Name() != want {
			t.Errorf("checks[%d].Name() = %q, want %q", i, r.checks[i].Name(), want)
		}
	}
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		severities   []Severity
		wantPassed   int
		wantInfo     int
		wantWarnings int
		wantErrors   int
		wantCode     int
	}{
		{name: "empty runner"},
		{
			name:       "all pass",
			severities: []Severity{SeverityPass, SeverityPass},
			wantPassed: 2,
		},
		{
			name:         "mixed",
			severities:   []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError, SeverityError},
			wantPassed:   1,
			wantInfo:     1,
			wantWarnings: 1,
			wantErrors:   2,
			wantCode:     errors.ExitSystem,
		},
		{
			name:         "warnings only",
			severities:   []Severity{SeverityInfo, SeverityWarning},
			wantInfo:     1,
			wantWarnings: 1,
			wantCode:     errors.ExitUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			r.now = func() time.Time { return fixed }
			for i, sev := range tt.severities {
				r.AddCheck(newStub(string(rune('a'+i)), sev))
			}

			report := r.Run()

			if len(report.Results) != len(tt.severities) {
				t.Errorf("Results = %d, want %d", len(report.Results), len(tt.severities))
			}
			if !report.Timestamp.Equal(fixed) {
				t.Errorf("Timestamp = %v, want %v", report.Timestamp, fixed)
			}
			s := report.Summary
			if s.Passed != tt.wantPassed || s.Info != tt.wantInfo || s.Warnings != tt.wantWarnings || s.Errors != tt.wantErrors {
				t.Errorf("Summary = %+v", s)
			}
			if report.HasErrors() != (tt.wantErrors > 0) {
				t.Errorf("HasErrors() = %v", report.HasErrors())
			}
			if report.HasWarnings() != (tt.wantWarnings > 0) {
				t.Errorf("HasWarnings() = %v", report.HasWarnings())
			}
			if got := report.ExitCode(); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestRunner_Fixers(t *testing.T) {
	r := NewRunner()
	fixable := newStub("fixable", SeverityWarning)
	fixable.result.Fixable = true
	r.AddCheck(fixable)
	r.AddCheck(newStub("clean", SeverityPass))

	r.Run()

	if got := len(r.Fixers()); got != 1 {
		t.Errorf("Fixers() = %d, want 1", got)
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "state-file", Status: SeverityWarning})
	if err != nil {
		t.Fatal(err)
	}
	if want := `"status":"warning"`; !strings.Contains(string(data), want) {
		t.Errorf("json = %s, want %s", data, want)
	}

	var back CheckResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Status != SeverityWarning {
		t.Errorf("Status = %v, want warning", back.Status)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"fatal"`), &s); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestCheckResult_Problem(t *testing.T) {
	for sev, want := range map[Severity]bool{
		SeverityPass:    false,
		SeverityInfo:    false,
		SeverityWarning: true,
		SeverityError:   true,
	} {
		if got := (&CheckResult{Status: sev}).Problem(); got != want {
			t.Errorf("Problem() for %v = %v, want %v", sev, got, want)
		}
	}
}
