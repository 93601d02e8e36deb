package bower

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/shell"
)

type fakeRunner struct {
	calls []shell.Command
	exit  int
	err   error
}

func (f *fakeRunner) Run(_ context.Context, c shell.Command) (*shell.Result, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	return &shell.Result{ExitCode: f.exit, Stderr: "ENOTFOUND"}, nil
}

func newTestBower(t *testing.T, runner shell.Runner, command string) *Bower {
	t.Helper()
	cfg := config.Default()
	if command != "" {
		cfg.Bower.Command = command
	}
	b, err := New(runner, "/proj", cfg)
	require.NoError(t, err)
	return b
}

func TestBower_Commands(t *testing.T) {
	tests := []struct {
		name string
		call func(*Bower) error
		want string
	}{
		{"install", func(b *Bower) error { return b.Install(context.Background(), "ionic-ion-drawer") }, "bower install --save-dev ionic-ion-drawer"},
		{"link", func(b *Bower) error { return b.Link(context.Background(), "push") }, "bower link ionic-service-push"},
		{"unlink", func(b *Bower) error { return b.Unlink(context.Background(), "push") }, "bower unlink ionic-service-push"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			require.NoError(t, tt.call(newTestBower(t, runner, "")))
			require.Len(t, runner.calls, 1)
			assert.Equal(t, tt.want, runner.calls[0].String())
			assert.Equal(t, "/proj", runner.calls[0].Dir)
			assert.False(t, runner.calls[0].Stream)
		})
	}
}

func TestBower_LinkFailure(t *testing.T) {
	runner := &fakeRunner{exit: 1}
	err := newTestBower(t, runner, "").Link(context.Background(), "push")
	require.Error(t, err)
	assert.Equal(t, errors.KindExternalCommand, errors.KindOf(err))
	assert.Equal(t, "service", errors.ContextOf(err))
	assert.Equal(t, `Failed to find the service "push". Are you sure it exists?`, errors.MessageOf(err))
}

func TestBower_InstallFailure(t *testing.T) {
	runner := &fakeRunner{exit: 1}
	err := newTestBower(t, runner, "").Install(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "add", errors.ContextOf(err))
	assert.True(t, strings.HasPrefix(errors.MessageOf(err), `Bower error, check that "nope" exists`))
}

func TestBower_SpawnFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec failed")}
	err := newTestBower(t, runner, "").Unlink(context.Background(), "push")
	assert.Equal(t, errors.KindExternalCommand, errors.KindOf(err))
}

func TestBower_CommandLine(t *testing.T) {
	runner := &fakeRunner{}
	b := newTestBower(t, runner, "npx bower --allow-root")
	require.NoError(t, b.Link(context.Background(), "push"))
	assert.Equal(t, "npx", runner.calls[0].Name)
	assert.Equal(t, []string{"bower", "--allow-root", "link", "ionic-service-push"}, runner.calls[0].Args)
	assert.Equal(t, "npx", b.Name())
}

func TestBower_Check(t *testing.T) {
	b := newTestBower(t, &fakeRunner{}, "")

	b.LookPath = func(string) (string, bool) { return "/usr/bin/bower", true }
	assert.True(t, b.Installed())
	assert.NoError(t, b.Check("service"))

	b.LookPath = func(string) (string, bool) { return "", false }
	err := b.Check("service")
	require.Error(t, err)
	assert.Equal(t, errors.KindPrerequisiteMissing, errors.KindOf(err))
	assert.Equal(t, InstallMessage, errors.MessageOf(err))
	assert.Equal(t, "service", errors.ContextOf(err))
}
