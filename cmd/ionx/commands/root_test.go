package commands

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
	"github.com/thoreinstein/ionx/internal/shell"
)

// recordingRunner records every command and fails the ones listed in exits.
type recordingRunner struct {
	mu    sync.Mutex
	calls []shell.Command
	exits map[string]int
}

func (r *recordingRunner) Run(_ context.Context, c shell.Command) (*shell.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return &shell.Result{ExitCode: r.exits[c.String()], Stderr: "boom"}, nil
}

func (r *recordingRunner) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

const testConfig = `cordova:
  default_plugins:
    - cordova-plugin-device
serve:
  platform_address: 10.0.0.2
`

// testProject creates a project directory and a config file and returns
// their paths.
func testProject(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	writeTestFile(t, filepath.Join(dir, "ionic.project"), `{"name":"demo","app_id":"abc"}`)
	writeTestFile(t, filepath.Join(dir, "config.xml"),
		`<widget id="io.ionic.demo"><content src="index.html"/></widget>`)

	cfgPath = filepath.Join(t.TempDir(), "config.yaml")
	writeTestFile(t, cfgPath, testConfig)
	return dir, cfgPath
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func noAddresses() ([]net.Addr, error) {
	return nil, nil
}

func foundAll(name string) (string, bool) {
	return "/usr/bin/" + name, true
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args []string, opts ...Option) (string, string, error) {
	t.Helper()
	opts = append([]Option{WithAddressLister(noAddresses), WithLookPath(foundAll)}, opts...)
	root := NewRootCmd(opts...)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLevel slog.Level
	}{
		{"default (0)", nil, slog.LevelWarn},
		{"verbose (1)", []string{"-v"}, slog.LevelInfo},
		{"debug (2)", []string{"-vv"}, slog.LevelDebug},
		{"trace (3)", []string{"-v", "-v", "-v"}, logging.LevelTrace},
		{"quiet", []string{"-q"}, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(debugEnv, "")
			_, _, err := execute(t, "", append(tt.args, "version"))
			require.NoError(t, err)

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"IONX_DEBUG=1", "1", slog.LevelDebug},
		{"IONX_DEBUG=true", "true", slog.LevelDebug},
		{"IONX_DEBUG=2", "2", logging.LevelTrace},
		{"IONX_DEBUG=0", "0", slog.LevelWarn},
		{"IONX_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(debugEnv, tt.envVal)

			_, _, err := execute(t, "", []string{"version"})
			require.NoError(t, err)

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel == slog.LevelDebug && logger.Enabled(t.Context(), logging.LevelTrace) {
				t.Error("expected Trace level to be disabled when IONX_DEBUG=1")
			}
		})
	}
}

func TestSetupLogging_QuietAndVerbose(t *testing.T) {
	_, _, err := execute(t, "", []string{"-q", "-v", "version"})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestSetupLogging_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "ionx.log")
	_, _, err := execute(t, "", []string{"-vv", "--log-file", logFile, "version"})
	require.NoError(t, err)

	slog.Default().Info("hello from test")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello from test"`)
}

func TestNewRootCmd_RegistersCommandsOnce(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"emulate", "run", "service", "add", "address", "config", "doctor", "version"} {
		assert.Contains(t, names, want)
	}

	// A second tree is independent of the first.
	other := NewRootCmd()
	assert.Len(t, other.Commands(), len(root.Commands()))
	assert.NotSame(t, root.Commands()[0], other.Commands()[0])
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
		none bool
	}{
		{
			name: "classified with context",
			err:  errors.E(errors.KindPlatformUnsupported, "emulate", "✗ You cannot run iOS unless you are on Mac OSX.", nil),
			want: []string{"Error [emulate]:", "✗ You cannot run iOS unless you are on Mac OSX."},
		},
		{
			name: "user error with hint",
			err:  errors.NewUserError(errors.New("bad flag"), "Run 'ionx emulate --help' for usage"),
			want: []string{"Error: bad flag", "  hint: Run 'ionx emulate --help' for usage"},
		},
		{
			name: "exit code only",
			err:  errors.NewExitError(nil, errors.ExitSystem),
			none: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Report(&buf, tt.err)
			if tt.none {
				assert.Empty(t, buf.String())
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
