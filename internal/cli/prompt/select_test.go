package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/duplifolder/internal/store"
)

var testDests = []store.Destination{
	{ID: "11111111", Name: "Work", Path: "/mnt/work"},
	{ID: "22222222", Name: "USB", Path: "/media/usb"},
	{ID: "33333333", Name: "NAS", Path: "/net/nas"},
}

func TestSelectDestination_EmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	_, err := s.SelectDestination(nil)
	if !errors.Is(err, ErrNoDestinations) {
		t.Fatalf("expected ErrNoDestinations, got: %v", err)
	}
}

func TestSelectDestination_SingleItem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	result, err := s.SelectDestination(testDests[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "Work" {
		t.Errorf("expected 'Work', got %q", result.Name)
	}
	if buf.Len() > 0 {
		t.Errorf("expected no output for single item, got: %s", buf.String())
	}
}

func TestSelectDestination_ValidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantName string
	}{
		{"explicit first", "1\n", "Work"},
		{"second", "2\n", "USB"},
		{"last", "3\n", "NAS"},
		{"default on empty", "\n", "Work"},
		{"whitespace", "  2  \n", "USB"},
		{"no trailing newline", "3", "NAS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			result, err := s.SelectDestination(testDests)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Name != tt.wantName {
				t.Errorf("expected %q, got %q", tt.wantName, result.Name)
			}
		})
	}
}

func TestSelectDestination_InvalidSelection(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"0\n", "4\n", "-1\n", "abc\n"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(input), &buf)

			_, err := s.SelectDestination(testDests)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Errorf("expected ErrInvalidSelection, got: %v", err)
			}
		})
	}
}

func TestSelectDestination_Cancelled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	_, err := s.SelectDestination(testDests)
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("expected ErrSelectionCancelled, got: %v", err)
	}
}

func TestSelectDestination_OutputFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader("1\n"), &buf)

	if _, err := s.SelectDestination(testDests); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"[1] Work (/mnt/work)", "[2] USB (/media/usb)", "[3] NAS (/net/nas)", "Select [1]: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{"answer", "/srv/backups\n", "", "/srv/backups"},
		{"default", "\n", "Work", "Work"},
		{"answer over default", "Home\n", "Work", "Home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			got, err := s.Input("Name", tt.def)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Input() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			got, err := s.Confirm("Remove all?")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFuzzyDestination(t *testing.T) {
	t.Parallel()

	t.Run("selected", func(t *testing.T) {
		t.Parallel()

		find := func(_ any, itemFunc func(int) string, _ ...fuzzyfinder.Option) (int, error) {
			if got := itemFunc(1); got != "USB  /media/usb" {
				t.Errorf("itemFunc(1) = %q", got)
			}
			return 1, nil
		}

		got, err := fuzzyDestination(find, testDests)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != "22222222" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("aborted", func(t *testing.T) {
		t.Parallel()

		find := func(any, func(int) string, ...fuzzyfinder.Option) (int, error) {
			return 0, fuzzyfinder.ErrAbort
		}

		_, err := fuzzyDestination(find, testDests)
		if !errors.Is(err, ErrSelectionCancelled) {
			t.Errorf("expected ErrSelectionCancelled, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := fuzzyDestination(nil, nil)
		if !errors.Is(err, ErrNoDestinations) {
			t.Errorf("expected ErrNoDestinations, got %v", err)
		}
	})
}
