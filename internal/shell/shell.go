// Package shell runs the external tools ionx wraps (bower, cordova).
//
// A Runner spawns one process per call and reports its exit code; it never
// interprets the exit code and never retries. Callers turn a non-zero exit
// into a user-facing error.
package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string

	// Args are passed verbatim.
	Args []string

	// Dir is the working directory. Empty means the runner's default.
	Dir string

	// Env holds extra KEY=VALUE entries appended after the inherited environment.
	Env []string

	// Stream attaches the process to the terminal instead of capturing output.
	Stream bool
}

// String returns the command line as a user would type it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes external commands.
type Runner interface {
	// Run blocks until the process exits. A non-zero exit is reported in
	// Result with a nil error; err is set only when the process could not be
	// started or waited on.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	dir    string
	env    []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithDir sets the default working directory.
func WithDir(dir string) Option {
	return func(r *ExecRunner) {
		r.dir = dir
	}
}

// WithEnv appends KEY=VALUE entries to every spawned process.
func WithEnv(env ...string) Option {
	return func(r *ExecRunner) {
		r.env = append(r.env, env...)
	}
}

// WithStdio overrides the terminal used by streaming commands.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(r *ExecRunner) {
		r.stdin = in
		r.stdout = out
		r.stderr = errOut
	}
}

// NewExecRunner creates a runner that inherits the current environment.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	logger := logging.FromContext(ctx)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.dir
	}
	cmd.Env = r.environ(c.Env)

	var stdout, stderr bytes.Buffer
	if c.Stream {
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	logger.Debug("running command", "cmd", c.String(), "dir", cmd.Dir)

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, errors.Wrapf(err, "running %s", c.Name)
	}

	logger.Log(ctx, logging.LevelTrace, "command finished",
		slog.String("cmd", c.String()),
		slog.Int("exit_code", result.ExitCode),
		slog.String("stdout", result.Stdout),
		slog.String("stderr", result.Stderr))

	return result, nil
}

func (r *ExecRunner) environ(extra []string) []string {
	env := os.Environ()
	env = append(env, r.env...)
	return append(env, extra...)
}

// LoadDotEnv reads KEY=VALUE pairs from path as runner environment entries.
// A missing file yields no entries.
func LoadDotEnv(path string) ([]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	env := make([]string, 0, len(values))
	for k, v := range values {
		env = append(env, k+"="+v)
	}
	return env, nil
}

// ParseCommandLine splits a configured command such as "npx cordova" into
// the executable and its leading arguments. Single and double quotes group
// words.
func ParseCommandLine(line string) (string, []string, error) {
	var (
		words   []string
		current strings.Builder
		quote   rune
		inWord  bool
	)
	for _, ch := range line {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(ch)
			inWord = true
		}
	}
	if quote != 0 {
		return "", nil, errors.Newf("unterminated quote in %q", line)
	}
	if inWord {
		words = append(words, current.String())
	}
	if len(words) == 0 {
		return "", nil, errors.New("empty command line")
	}
	return words[0], words[1:], nil
}

// LookPath reports whether name resolves to an executable.
func LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	return path, err == nil
}

// Task is a pending Run. Wait blocks until the process exits.
type Task struct {
	done   chan struct{}
	result *Result
	err    error
}

// Go starts cmd on runner in a new goroutine.
func Go(ctx context.Context, runner Runner, cmd Command) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.result, t.err = runner.Run(ctx, cmd)
	}()
	return t
}

// Wait returns the outcome of the run. It may be called more than once.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}

// Done is closed when the run finishes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
