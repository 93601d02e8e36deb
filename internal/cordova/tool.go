// Package cordova wraps the native build tool: it probes a project for
// installed platforms and plugins, installs them, prepares live-reload and
// runs emulate/run.
package cordova

import (
	"context"
	"fmt"
	"strconv"

	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/internal/shell"
)

// LiveReloadOptions is the dev server configuration handed to the final
// build tool call.
type LiveReloadOptions struct {
	Address        string
	Port           int
	LiveReloadPort int
	ConsoleLogs    bool
	ServerLogs     bool
}

// URL is the dev server address the app loads from.
func (o *LiveReloadOptions) URL() string {
	return "http://" + o.Address + ":" + strconv.Itoa(o.Port)
}

// Env returns the entries added to the build tool environment.
func (o *LiveReloadOptions) Env() []string {
	env := []string{
		"IONX_LIVERELOAD_URL=" + o.URL(),
		"IONX_LIVERELOAD_PORT=" + strconv.Itoa(o.LiveReloadPort),
	}
	if o.ConsoleLogs {
		env = append(env, "IONX_CONSOLE_LOGS=1")
	}
	if o.ServerLogs {
		env = append(env, "IONX_SERVER_LOGS=1")
	}
	return env
}

// Tool runs the build tool inside one project directory.
type Tool struct {
	runner   shell.Runner
	dir      string
	name     string
	baseArgs []string
	plugins  []string
	serve    config.ServeConfig

	// Addresses is used to discover a serve address; nil uses the host's interfaces.
	Addresses AddressLister
}

// NewTool builds a Tool from the cordova and serve sections of cfg.
func NewTool(runner shell.Runner, dir string, cfg *config.Config) (*Tool, error) {
	name, args, err := shell.ParseCommandLine(cfg.Cordova.Command)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", config.KeyCordovaCommand)
	}
	return &Tool{
		runner:   runner,
		dir:      dir,
		name:     name,
		baseArgs: args,
		plugins:  append([]string(nil), cfg.Cordova.DefaultPlugins...),
		serve:    cfg.Serve,
	}, nil
}

// Name returns the executable the tool runs.
func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) command(stream bool, args ...string) shell.Command {
	return shell.Command{
		Name:   t.name,
		Args:   append(append([]string(nil), t.baseArgs...), args...),
		Dir:    t.dir,
		Stream: stream,
	}
}

// run waits for c and turns a non-zero exit into a KindExternalCommand error.
func (t *Tool) run(ctx context.Context, errCtx, message string, c shell.Command) error {
	res, err := shell.Go(ctx, t.runner, c).Wait()
	if err != nil {
		return errors.E(errors.KindExternalCommand, errCtx, message, err)
	}
	if !res.Success() {
		cause := errors.Newf("%s exited with code %d", c.String(), res.ExitCode)
		if res.Stderr != "" {
			cause = errors.WithDetail(cause, res.Stderr)
		}
		return errors.E(errors.KindExternalCommand, errCtx, message, cause)
	}
	return nil
}

// InstallPlatform runs `cordova platform add <platform>`.
func (t *Tool) InstallPlatform(ctx context.Context, platform string) error {
	logging.FromContext(ctx).Info("installing platform", "platform", platform)
	return t.run(ctx, "platform",
		fmt.Sprintf("Failed to add the %q platform", platform),
		t.command(true, "platform", "add", platform))
}

// InstallPlugins runs `cordova plugin add --save <id>` for each default
// plugin in order, stopping at the first failure.
func (t *Tool) InstallPlugins(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	for _, id := range t.plugins {
		logger.Info("installing plugin", "plugin", id)
		if err := t.run(ctx, "plugin",
			fmt.Sprintf("Failed to install the plugin %q", id),
			t.command(true, "plugin", "add", "--save", id)); err != nil {
			return err
		}
	}
	return nil
}

// AddPlugin runs `cordova plugin add <uri>`.
func (t *Tool) AddPlugin(ctx context.Context, uri string) error {
	return t.run(ctx, "plugin",
		fmt.Sprintf("Failed to add the plugin %q", uri),
		t.command(false, "plugin", "add", uri))
}

// RemovePlugin runs `cordova plugin rm <id>`.
func (t *Tool) RemovePlugin(ctx context.Context, id string) error {
	return t.run(ctx, "plugin",
		fmt.Sprintf("Failed to remove the plugin %q", id),
		t.command(false, "plugin", "rm", id))
}

// ResolveAddress picks the dev server address: the flag, then
// serve.platform_address, then the first discovered IPv4, then localhost.
func (t *Tool) ResolveAddress(ctx context.Context, flag string) string {
	if flag != "" {
		return flag
	}
	if t.serve.PlatformAddress != "" {
		return t.serve.PlatformAddress
	}
	addrs, err := DiscoverAddresses(t.Addresses)
	if err != nil {
		logging.FromContext(ctx).Warn("address discovery failed", "error", err)
	}
	if len(addrs) > 0 {
		return addrs[0]
	}
	return Localhost
}

// SetupLiveReload resolves the dev server settings for inv and points
// config.xml at the dev server.
func (t *Tool) SetupLiveReload(ctx context.Context, inv *Invocation) (*LiveReloadOptions, error) {
	opts := &LiveReloadOptions{
		Address:        t.ResolveAddress(ctx, inv.Address),
		Port:           firstPort(inv.Port, t.serve.Port, config.DefaultServePort),
		LiveReloadPort: firstPort(inv.LiveReloadPort, t.serve.LiveReloadPort, config.DefaultLiveReloadPort),
		ConsoleLogs:    inv.ConsoleLogs,
		ServerLogs:     inv.ServerLogs,
	}

	if err := SetContentSrc(paths.ConfigXML(t.dir), opts.URL()); err != nil {
		return nil, withContext(err, inv.Command)
	}
	logging.FromContext(ctx).Info("live-reload enabled", "url", opts.URL(), "livereload_port", opts.LiveReloadPort)
	return opts, nil
}

// Exec runs `cordova <args...>` attached to the terminal. When liveReload is
// set, config.xml is pointed back at index.html once the tool exits.
func (t *Tool) Exec(ctx context.Context, args []string, liveReload bool, opts *LiveReloadOptions) error {
	errCtx := ""
	if len(args) > 0 {
		errCtx = args[0]
	}

	c := t.command(true, args...)
	if liveReload && opts != nil {
		c.Env = opts.Env()
	}

	err := t.run(ctx, errCtx, fmt.Sprintf("%s %s failed", t.name, errCtx), c)

	if liveReload {
		if restoreErr := SetContentSrc(paths.ConfigXML(t.dir), DefaultContentSrc); restoreErr != nil {
			logging.FromContext(ctx).Warn("restoring config.xml failed", "error", restoreErr)
		}
	}
	return err
}

func firstPort(ports ...int) int {
	for _, p := range ports {
		if p > 0 {
			return p
		}
	}
	return 0
}

func withContext(err error, errCtx string) error {
	var e *errors.Error
	if errors.As(err, &e) && e.Context == "" {
		e.Context = errCtx
	}
	return err
}
