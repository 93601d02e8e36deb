package prompt

import (
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/ionx/internal/errors"
)

// FindFunc runs a fuzzy finder over n items and returns the chosen index.
// preview may be nil.
type FindFunc func(n int, label func(int) string, preview func(int) string) (int, error)

// Picker chooses one item from a list with a fuzzy finder.
type Picker struct {
	find FindFunc
}

// NewPicker creates a Picker backed by the terminal fuzzy finder.
func NewPicker() *Picker {
	return &Picker{find: terminalFind}
}

// NewPickerWithFinder creates a Picker with a custom finder for testing.
func NewPickerWithFinder(find FindFunc) *Picker {
	return &Picker{find: find}
}

// Pick asks the user to choose one of items. When preview is non-nil its
// text for the highlighted item is shown beside the list.
//
// Returns ErrNoChoices for an empty list and ErrSelectionCancelled when the
// user aborts.
func (p *Picker) Pick(items []string, preview func(item string) string) (string, error) {
	if len(items) == 0 {
		return "", ErrNoChoices
	}

	var previewAt func(int) string
	if preview != nil {
		previewAt = func(i int) string { return preview(items[i]) }
	}

	idx, err := p.find(len(items), func(i int) string { return items[i] }, previewAt)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) || errors.Is(err, ErrSelectionCancelled) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	if idx < 0 || idx >= len(items) {
		return "", errors.Wrapf(ErrInvalidSelection, "index %d is out of range", idx)
	}
	return items[idx], nil
}

func terminalFind(n int, label func(int) string, preview func(int) string) (int, error) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var opts []fuzzyfinder.Option
	if preview != nil {
		opts = append(opts, fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(i)
		}))
	}
	return fuzzyfinder.Find(indices, label, opts...)
}
