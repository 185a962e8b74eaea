package prompt

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/store"
)

// FindFunc matches fuzzyfinder.Find.
type FindFunc func(slice any, itemFunc func(i int) string, opts ...fuzzyfinder.Option) (int, error)

// FuzzyDestination opens a full-screen fuzzy finder over dests, previewing
// each entry's id and path. Aborting returns ErrSelectionCancelled.
func FuzzyDestination(dests []store.Destination) (*store.Destination, error) {
	return fuzzyDestination(fuzzyfinder.Find, dests)
}

func fuzzyDestination(find FindFunc, dests []store.Destination) (*store.Destination, error) {
	if len(dests) == 0 {
		return nil, ErrNoDestinations
	}

	idx, err := find(
		dests,
		func(i int) string {
			return fmt.Sprintf("%s  %s", dests[i].Name, dests[i].Path)
		},
		fuzzyfinder.WithPromptString("destination> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			d := dests[i]
			return fmt.Sprintf("Name: %s\nID:   %s\nPath: %s", d.Name, d.ID, d.Path)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	return &dests[idx], nil
}
