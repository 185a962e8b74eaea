// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/store"
)

// Sentinel errors for destination selection.
var (
	ErrNoDestinations     = errors.New("no saved destinations")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive prompts on a line-oriented reader.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// SelectDestination prompts the user to choose a saved destination.
//
// Returns:
//   - ErrNoDestinations if the list is empty
//   - The destination if only one exists (auto-selects without prompting)
//   - The selected destination based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectDestination(dests []store.Destination) (*store.Destination, error) {
	if len(dests) == 0 {
		return nil, ErrNoDestinations
	}

	if len(dests) == 1 {
		return &dests[0], nil
	}

	fmt.Fprintln(s.writer, "Backup destinations:")
	for i, d := range dests {
		fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, d.Name, d.Path)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return nil, err
	}

	if input == "" {
		return &dests[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	if selection < 1 || selection > len(dests) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(dests))
	}

	return &dests[selection-1], nil
}

// Input asks for a line of text. An empty answer returns def.
func (s *Selector) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(s.writer, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.writer, "%s: ", label)
	}

	input, err := s.readLine()
	if err != nil {
		return "", err
	}
	if input == "" {
		return def, nil
	}
	return input, nil
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [y/N]: ", question)

	input, err := s.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (s *Selector) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts.
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimSpace(input), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(input), nil
}
