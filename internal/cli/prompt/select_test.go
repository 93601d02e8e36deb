package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ionx/internal/errors"
)

var addresses = []string{"192.168.1.10", "10.0.0.4", "localhost"}

func TestSelect_EmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	_, err := s.Select("Pick one:", nil)
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestSelect_SingleItem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	got, err := s.Select("Pick one:", []string{"localhost"})
	require.NoError(t, err)
	assert.Equal(t, "localhost", got)
	assert.Zero(t, buf.Len(), "single choice should not prompt")
}

func TestSelect_ValidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"explicit first", "1\n", "192.168.1.10"},
		{"explicit second", "2\n", "10.0.0.4"},
		{"default on empty", "\n", "192.168.1.10"},
		{"whitespace trimmed", "  3  \n", "localhost"},
		{"no trailing newline", "2", "10.0.0.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			got, err := s.Select("Please select which address to use:", addresses)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			out := buf.String()
			assert.Contains(t, out, "Please select which address to use:")
			assert.Contains(t, out, "  [1] 192.168.1.10")
			assert.Contains(t, out, "  [3] localhost")
			assert.True(t, strings.HasSuffix(out, "Select [1]: "))
		})
	}
}

func TestSelect_InvalidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not a number", "abc\n", ErrInvalidSelection},
		{"zero", "0\n", ErrInvalidSelection},
		{"too large", "4\n", ErrInvalidSelection},
		{"negative", "-1\n", ErrInvalidSelection},
		{"eof", "", ErrSelectionCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSelectorWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
			_, err := s.Select("Pick one:", addresses)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPicker_Pick(t *testing.T) {
	t.Parallel()

	services := []string{"push", "analytics", "deploy"}

	t.Run("returns chosen item", func(t *testing.T) {
		t.Parallel()

		var labels, previews []string
		p := NewPickerWithFinder(func(n int, label, preview func(int) string) (int, error) {
			for i := 0; i < n; i++ {
				labels = append(labels, label(i))
				previews = append(previews, preview(i))
			}
			return 1, nil
		})

		got, err := p.Pick(services, func(s string) string { return "service " + s })
		require.NoError(t, err)
		assert.Equal(t, "analytics", got)
		assert.Equal(t, services, labels)
		assert.Equal(t, "service deploy", previews[2])
	})

	t.Run("nil preview", func(t *testing.T) {
		t.Parallel()

		p := NewPickerWithFinder(func(_ int, _, preview func(int) string) (int, error) {
			assert.Nil(t, preview)
			return 0, nil
		})
		got, err := p.Pick(services, nil)
		require.NoError(t, err)
		assert.Equal(t, "push", got)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		p := NewPickerWithFinder(func(int, func(int) string, func(int) string) (int, error) {
			t.Fatal("finder should not run")
			return 0, nil
		})
		_, err := p.Pick(nil, nil)
		assert.ErrorIs(t, err, ErrNoChoices)
	})

	t.Run("abort", func(t *testing.T) {
		t.Parallel()

		p := NewPickerWithFinder(func(int, func(int) string, func(int) string) (int, error) {
			return 0, fuzzyfinder.ErrAbort
		})
		_, err := p.Pick(services, nil)
		assert.ErrorIs(t, err, ErrSelectionCancelled)
	})

	t.Run("finder failure", func(t *testing.T) {
		t.Parallel()

		p := NewPickerWithFinder(func(int, func(int) string, func(int) string) (int, error) {
			return 0, errors.New("no tty")
		})
		_, err := p.Pick(services, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interactive selection failed")
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		p := NewPickerWithFinder(func(int, func(int) string, func(int) string) (int, error) {
			return 7, nil
		})
		_, err := p.Pick(services, nil)
		assert.ErrorIs(t, err, ErrInvalidSelection)
	})
}
