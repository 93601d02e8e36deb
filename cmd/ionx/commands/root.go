// Package commands implements the CLI commands for ionx.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ionx/internal/cli/prompt"
	"github.com/thoreinstein/ionx/internal/cordova"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
	"github.com/thoreinstein/ionx/internal/shell"
)

// debugEnv raises the log level when no -v flag is given: 1|true is Debug,
// 2 is Trace.
const debugEnv = "IONX_DEBUG"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbosity  int
	quiet      bool
	logFormat  string
	logFile    string
	cwd        string
	configFile string
}

// App is the state shared by the commands of one root command. It is built
// once by NewRootCmd.
type App struct {
	flags globalFlags

	runner      shell.Runner
	hostOS      string
	addresses   cordova.AddressLister
	lookPath    func(string) (string, bool)
	picker      *prompt.Picker
	interactive func() bool

	env *Env
}

// Option configures an App.
type Option func(*App)

// WithRunner replaces the process runner used for bower and cordova.
func WithRunner(r shell.Runner) Option {
	return func(a *App) {
		a.runner = r
	}
}

// WithHostOS overrides the host operating system used to pick platforms.
func WithHostOS(goos string) Option {
	return func(a *App) {
		a.hostOS = goos
	}
}

// WithAddressLister overrides network interface discovery.
func WithAddressLister(list cordova.AddressLister) Option {
	return func(a *App) {
		a.addresses = list
	}
}

// WithLookPath overrides executable lookup for prerequisite checks.
func WithLookPath(fn func(string) (string, bool)) Option {
	return func(a *App) {
		a.lookPath = fn
	}
}

// WithPicker overrides the fuzzy picker and forces interactive mode.
func WithPicker(p *prompt.Picker) Option {
	return func(a *App) {
		a.picker = p
		a.interactive = func() bool { return true }
	}
}

// commandConstructors lists every top-level command. NewRootCmd builds each
// exactly once.
var commandConstructors = []func(*App) *cobra.Command{
	newEmulateCmd,
	newRunCmd,
	newServiceCmd,
	newAddCmd,
	newAddressCmd,
	newConfigCmd,
	newDoctorCmd,
	newVersionCmd,
	newGenDocCmd,
}

// NewRootCmd builds the ionx command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	app := &App{
		hostOS:      runtime.GOOS,
		picker:      prompt.NewPicker(),
		interactive: logging.IsInteractive,
	}
	for _, opt := range opts {
		opt(app)
	}

	root := &cobra.Command{
		Use:   "ionx",
		Short: "Helper CLI for Ionic and Cordova projects",
		Long: `ionx drives the native build tool and the bower package manager for an
Ionic project.

It installs missing platforms and plugins before emulating or running the
app, prepares live-reload, and adds or removes services along with the
native plugins they depend on.`,
		Example: `  # Emulate on the default platform for this host
  ionx emulate

  # Run on a device with live-reload
  ionx run android --livereload

  # Add a service and its plugins
  ionx service add push

  # Check the project and the host tools
  ionx doctor

  See Also: ionx doctor, ionx config`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("ionx version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.CountVarP(&app.flags.verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&app.flags.quiet, "quiet", "q", false,
		"suppress non-error output")
	pf.StringVar(&app.flags.logFormat, "log-format", "text",
		"log format: text, json")
	pf.StringVar(&app.flags.logFile, "log-file", "",
		"write logs to file in JSON format")
	pf.StringVarP(&app.flags.cwd, "cwd", "C", "",
		"project directory (default: current directory)")
	pf.StringVar(&app.flags.configFile, "config", "",
		"config file (default: $XDG_CONFIG_HOME/ionx/config.yaml)")

	for _, build := range commandConstructors {
		root.AddCommand(build(app))
	}
	return root
}

// setupLogging configures the default logger based on verbosity flags.
func (a *App) setupLogging(cmd *cobra.Command) error {
	if a.flags.quiet && a.flags.verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if a.flags.quiet {
		level = slog.LevelError
	} else {
		v := a.flags.verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(a.flags.logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if a.flags.logFile != "" {
		f, err := os.OpenFile(a.flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command and reports any failure on stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		Report(root.ErrOrStderr(), err)
	}
	return err
}

// Report prints err for the user. Errors carrying only an exit code print
// nothing.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	hasExit := errors.As(err, &exitErr)
	if hasExit && exitErr.Err == nil {
		return
	}

	label := "Error:"
	if tag := errors.ContextOf(err); tag != "" {
		label = "Error [" + tag + "]:"
	}
	fprintf(w, "%s %s\n", errorColor.Sprint(label), errors.MessageOf(err))

	if hasExit && exitErr.Suggestion != "" {
		fprintf(w, "  hint: %s\n", exitErr.Suggestion)
	}

	slog.Debug("command failed",
		"kind", errors.KindOf(err).String(),
		"exit_code", errors.ExitCode(err),
		"error", err.Error())
}
