package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ionx/internal/shell"
)

func noNano(string) (string, bool) { return "", false }

func withNano(name string) (string, bool) { return "/usr/bin/" + name, name == "nano" }

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		editor   string
		visual   string
		lookPath func(string) (string, bool)
		want     string
	}{
		{"EDITOR wins", "nvim", "code", noNano, "nvim"},
		{"VISUAL when EDITOR empty", "", "code --wait", noNano, "code --wait"},
		{"blank EDITOR treated as unset", "   ", "vscode", noNano, "vscode"},
		{"nano fallback", "", "", withNano, "nano"},
		{"vi fallback", "", "", noNano, "vi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)
			assert.Equal(t, tt.want, Detect(tt.lookPath))
		})
	}
}

type fakeRunner struct {
	got  shell.Command
	exit int
}

func (f *fakeRunner) Run(_ context.Context, c shell.Command) (*shell.Result, error) {
	f.got = c
	return &shell.Result{ExitCode: f.exit}, nil
}

func TestOpen(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")

	r := &fakeRunner{}
	require.NoError(t, Open(context.Background(), r, "/tmp/config.yaml"))
	assert.Equal(t, "code", r.got.Name)
	assert.Equal(t, []string{"--wait", "/tmp/config.yaml"}, r.got.Args)
	assert.True(t, r.got.Stream)

	r.exit = 1
	err := Open(context.Background(), r, "/tmp/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 1")
}

func TestOpen_UnterminatedQuote(t *testing.T) {
	t.Setenv("EDITOR", `"code`)
	err := Open(context.Background(), &fakeRunner{}, "/tmp/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing editor command")
}
