// Package orchestrator decides, for one emulate or run invocation, whether
// the target platform and the project's plugins must be installed first,
// whether live-reload is prepared, and then runs the build tool.
//
// Every step waits for the previous one. The first failure ends the run;
// nothing already installed is rolled back and nothing is retried.
package orchestrator

import (
	"context"
	"runtime"

	"github.com/thoreinstein/ionx/internal/cordova"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
)

// UnsupportedIOSMessage is reported when iOS is requested off darwin.
const UnsupportedIOSMessage = "✗ You cannot run iOS unless you are on Mac OSX."

// Probe inspects the project on disk.
type Probe interface {
	IsPlatformInstalled(platform, dir string) bool
	ArePluginsInstalled(dir string) bool
}

// Tool performs the build tool actions.
type Tool interface {
	InstallPlatform(ctx context.Context, platform string) error
	InstallPlugins(ctx context.Context) error
	SetupLiveReload(ctx context.Context, inv *cordova.Invocation) (*cordova.LiveReloadOptions, error)
	Exec(ctx context.Context, args []string, liveReload bool, opts *cordova.LiveReloadOptions) error
}

// Decision is what a run will do. It is computed per invocation and never
// stored.
type Decision struct {
	Platform             string
	NeedsPlatformInstall bool
	NeedsPluginInstall   bool
	LiveReload           bool

	// Options is set by Run once live-reload has been prepared.
	Options *cordova.LiveReloadOptions

	// Args is the vector passed to the final build tool call.
	Args []string
}

// Orchestrator runs emulate and run invocations in one project directory.
type Orchestrator struct {
	probe Probe
	tool  Tool
	dir   string

	// HostOS decides the default platform; it defaults to runtime.GOOS.
	HostOS string
}

// New returns an Orchestrator for the project in dir.
func New(probe Probe, tool Tool, dir string) *Orchestrator {
	return &Orchestrator{
		probe:  probe,
		tool:   tool,
		dir:    dir,
		HostOS: runtime.GOOS,
	}
}

// resolvePlatform returns the target platform and the final argument vector.
func (o *Orchestrator) resolvePlatform(inv *cordova.Invocation) (string, []string, error) {
	platform := inv.Platform
	if !inv.HasPlatform() {
		platform = cordova.DefaultPlatform(o.HostOS)
	}
	if !cordova.CanBuild(platform, o.HostOS) {
		return "", nil, errors.E(errors.KindPlatformUnsupported, inv.Command, UnsupportedIOSMessage, nil)
	}
	return platform, inv.WithPlatform(platform), nil
}

// Plan computes the Decision for inv without running anything.
func (o *Orchestrator) Plan(inv *cordova.Invocation) (*Decision, error) {
	platform, args, err := o.resolvePlatform(inv)
	if err != nil {
		return nil, err
	}
	return &Decision{
		Platform:             platform,
		NeedsPlatformInstall: !o.probe.IsPlatformInstalled(platform, o.dir),
		NeedsPluginInstall:   !o.probe.ArePluginsInstalled(o.dir),
		LiveReload:           inv.LiveReload,
		Args:                 args,
	}, nil
}

// Run executes inv and returns the Decision it acted on.
func (o *Orchestrator) Run(ctx context.Context, inv *cordova.Invocation) (*Decision, error) {
	logger := logging.FromContext(ctx)

	platform, args, err := o.resolvePlatform(inv)
	if err != nil {
		return nil, err
	}
	d := &Decision{Platform: platform, LiveReload: inv.LiveReload, Args: args}
	logger.Debug("resolved platform", "platform", platform, "explicit", inv.HasPlatform())

	if !o.probe.IsPlatformInstalled(platform, o.dir) {
		d.NeedsPlatformInstall = true
		if err := o.tool.InstallPlatform(ctx, platform); err != nil {
			return d, err
		}
	}

	if !o.probe.ArePluginsInstalled(o.dir) {
		d.NeedsPluginInstall = true
		if err := o.tool.InstallPlugins(ctx); err != nil {
			return d, err
		}
	}

	if inv.LiveReload {
		opts, err := o.tool.SetupLiveReload(ctx, inv)
		if err != nil {
			return d, err
		}
		d.Options = opts
	}

	logger.Info("running build tool", "args", d.Args, "livereload", d.LiveReload)
	return d, o.tool.Exec(ctx, d.Args, d.LiveReload, d.Options)
}
