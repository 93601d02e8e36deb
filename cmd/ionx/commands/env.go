package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ionx/internal/bower"
	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/cordova"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/orchestrator"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/internal/project"
	"github.com/thoreinstein/ionx/internal/service"
	"github.com/thoreinstein/ionx/internal/shell"
)

// Env is the per-invocation wiring: the project directory, the tool
// configuration and the components built on them.
type Env struct {
	Dir          string
	Config       *config.Config
	Runner       shell.Runner
	Store        *project.Store
	Probe        *cordova.Probe
	Tool         *cordova.Tool
	Bower        *bower.Bower
	Orchestrator *orchestrator.Orchestrator
	Services     *service.Manager
}

// projectDir resolves --cwd against the working directory.
func (a *App) projectDir() (string, error) {
	dir := a.flags.cwd
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "getting working directory")
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", dir)
	}
	if !paths.DirExists(abs) {
		return "", errors.NewUserError(errors.Newf("directory %s does not exist", abs), "pass an existing project directory to --cwd")
	}
	return abs, nil
}

// loadConfig reads the tool configuration into viper and returns it.
func (a *App) loadConfig() (*config.Config, error) {
	viper.Reset()
	config.Init()
	cfg, err := config.Load(a.flags.configFile)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return cfg, nil
}

// loadEnv builds the Env once per App.
func (a *App) loadEnv() (*Env, error) {
	if a.env != nil {
		return a.env, nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := a.projectDir()
	if err != nil {
		return nil, err
	}

	runner := a.runner
	if runner == nil {
		dotenv, err := shell.LoadDotEnv(paths.DotEnv(dir))
		if err != nil {
			return nil, errors.NewUserError(err, "fix the syntax of "+paths.DotEnv(dir))
		}
		runner = shell.NewExecRunner(shell.WithDir(dir), shell.WithEnv(dotenv...))
	}

	tool, err := cordova.NewTool(runner, dir, cfg)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	tool.Addresses = a.addresses

	bw, err := bower.New(runner, dir, cfg)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	bw.LookPath = a.lookPath

	store := project.NewStore(dir)
	probe := cordova.NewProbe()

	orch := orchestrator.New(probe, tool, dir)
	orch.HostOS = a.hostOS

	a.env = &Env{
		Dir:          dir,
		Config:       cfg,
		Runner:       runner,
		Store:        store,
		Probe:        probe,
		Tool:         tool,
		Bower:        bw,
		Orchestrator: orch,
		Services:     service.NewManager(bw, tool, store),
	}
	return a.env, nil
}
