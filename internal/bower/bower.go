// Package bower wraps the bower package manager used to fetch ions and
// service packages.
package bower

import (
	"context"

	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/internal/shell"
)

// InstallMessage is shown when bower is not on PATH.
const InstallMessage = "You must have bower installed to continue. Type `npm install -g bower`"

// Bower runs bower commands inside one project directory.
type Bower struct {
	runner   shell.Runner
	dir      string
	name     string
	baseArgs []string

	// LookPath resolves an executable; nil uses shell.LookPath.
	LookPath func(string) (string, bool)
}

// New builds a Bower from the bower section of cfg.
func New(runner shell.Runner, dir string, cfg *config.Config) (*Bower, error) {
	name, args, err := shell.ParseCommandLine(cfg.Bower.Command)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", config.KeyBowerCommand)
	}
	return &Bower{runner: runner, dir: dir, name: name, baseArgs: args}, nil
}

// Name returns the executable bower runs as.
func (b *Bower) Name() string {
	return b.name
}

// Installed reports whether the bower executable can be found.
func (b *Bower) Installed() bool {
	lookPath := b.LookPath
	if lookPath == nil {
		lookPath = shell.LookPath
	}
	_, ok := lookPath(b.name)
	return ok
}

// Check returns a KindPrerequisiteMissing error tagged errCtx when bower is
// not installed.
func (b *Bower) Check(errCtx string) error {
	if b.Installed() {
		return nil
	}
	return errors.E(errors.KindPrerequisiteMissing, errCtx, InstallMessage, nil)
}

// Result runs bower with args and returns the raw process result.
func (b *Bower) Result(ctx context.Context, args ...string) (*shell.Result, error) {
	return b.runner.Run(ctx, shell.Command{
		Name: b.name,
		Args: append(append([]string(nil), b.baseArgs...), args...),
		Dir:  b.dir,
	})
}

// run returns a KindExternalCommand error carrying message when bower fails.
func (b *Bower) run(ctx context.Context, errCtx, message string, args ...string) error {
	res, err := b.Result(ctx, args...)
	if err != nil {
		return errors.E(errors.KindExternalCommand, errCtx, message, err)
	}
	if !res.Success() {
		cause := errors.Newf("bower %v exited with code %d", args, res.ExitCode)
		if res.Stderr != "" {
			cause = errors.WithDetail(cause, res.Stderr)
		}
		return errors.E(errors.KindExternalCommand, errCtx, message, cause)
	}
	logging.FromContext(ctx).Debug("bower finished", "args", args)
	return nil
}

// Install runs `bower install --save-dev <component>`.
func (b *Bower) Install(ctx context.Context, component string) error {
	return b.run(ctx, "add",
		"Bower error, check that \""+component+"\" exists,\nor try running \"bower install --save-dev "+component+"\" for more info.",
		"install", "--save-dev", component)
}

// Link runs `bower link ionic-service-<service>`.
func (b *Bower) Link(ctx context.Context, service string) error {
	return b.run(ctx, "service", missingServiceMessage(service), "link", paths.ServicePackage(service))
}

// Unlink runs `bower unlink ionic-service-<service>`.
func (b *Bower) Unlink(ctx context.Context, service string) error {
	return b.run(ctx, "service", missingServiceMessage(service), "unlink", paths.ServicePackage(service))
}

func missingServiceMessage(service string) string {
	return "Failed to find the service \"" + service + "\". Are you sure it exists?"
}
