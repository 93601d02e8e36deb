package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/cordova"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/internal/project"
	"github.com/thoreinstein/ionx/internal/shell"
	"github.com/thoreinstein/ionx/pkg/fileutil"
)

// ToolCheck verifies that an external tool is on PATH.
type ToolCheck struct {
	// Tool is the display name, e.g. "bower".
	Tool string

	// Command is the configured command line.
	Command string

	// InstallHint is shown when the tool is missing.
	InstallHint string

	// LookPath resolves an executable; nil uses shell.LookPath.
	LookPath func(string) (string, bool)
}

var _ Check = (*ToolCheck)(nil)

// NewToolCheck creates a check for tool run as command.
func NewToolCheck(tool, command, installHint string) *ToolCheck {
	return &ToolCheck{Tool: tool, Command: command, InstallHint: installHint}
}

// Name returns the unique identifier for this check.
func (c *ToolCheck) Name() string {
	return c.Tool + "-installed"
}

// Category returns the grouping for this check.
func (c *ToolCheck) Category() string {
	return "prerequisites"
}

// Run executes the check.
func (c *ToolCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	name, _, err := shell.ParseCommandLine(c.Command)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("invalid %s command %q: %v", c.Tool, c.Command, err)
		result.FixHint = "ionx config set " + c.Tool + ".command " + c.Tool
		return result
	}

	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = shell.LookPath
	}
	path, ok := lookPath(name)
	if !ok {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s not found on PATH", name)
		result.FixHint = c.InstallHint
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s found at %s", c.Tool, path)
	result.Details = map[string]any{"path": path}
	return result
}

// ToolConfigCheck validates the ionx configuration.
type ToolConfigCheck struct {
	Config *config.Config
	Path   string

	// LoadErr is the error from reading the config file, if any.
	LoadErr error
}

var _ Check = (*ToolConfigCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ToolConfigCheck) Name() string {
	return "tool-config"
}

// Category returns the grouping for this check.
func (c *ToolConfigCheck) Category() string {
	return "config"
}

// Run executes the check.
func (c *ToolConfigCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.LoadErr != nil {
		result.Status = SeverityError
		result.Message = "cannot load configuration: " + c.LoadErr.Error()
		result.Details = map[string]any{"path": c.Path}
		result.FixHint = "fix or remove " + c.Path
		return result
	}

	errs := config.Validate(c.Config)
	if len(errs) == 0 {
		result.Status = SeverityPass
		result.Message = "configuration is valid"
		return result
	}

	problems := make([]string, len(errs))
	for i, e := range errs {
		problems[i] = e.Error()
	}
	result.Status = SeverityError
	result.Message = fmt.Sprintf("%d invalid setting(s)", len(errs))
	result.Details = map[string]any{"problems": problems, "path": c.Path}
	result.FixHint = "fix the values with: ionx config set <key> <value>"
	return result
}

// ProjectFileCheck validates ionic.project and .bowerrc in a project directory.
type ProjectFileCheck struct {
	Store *project.Store
}

var _ Check = (*ProjectFileCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ProjectFileCheck) Name() string {
	return "project-files"
}

// Category returns the grouping for this check.
func (c *ProjectFileCheck) Category() string {
	return "project"
}

// Run executes the check.
func (c *ProjectFileCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category(), Details: map[string]any{}}

	d, err := c.Store.Load()
	switch {
	case errors.Is(err, errors.ErrNotFound):
		result.Status = SeverityWarning
		result.Message = paths.ProjectFileName + " not found; is this an Ionic project?"
		result.FixHint = "run ionx from the project root or pass --cwd"
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = describeFileError(err)
		result.FixHint = "fix the JSON syntax in " + paths.ProjectFileName
		return result
	}

	names := make([]string, 0, len(d.Services))
	for _, s := range d.Services {
		names = append(names, s.Name)
	}
	result.Details["services"] = names

	dir, err := c.Store.ComponentDir()
	if err != nil {
		result.Status = SeverityError
		result.Message = describeFileError(err)
		result.FixHint = "fix the JSON syntax in " + paths.BowerRCFileName
		return result
	}
	result.Details["component_dir"] = dir

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s is valid (%d service(s))", paths.ProjectFileName, len(names))
	return result
}

// PlatformCheck reports the installed platforms and whether they can be
// built on this host.
type PlatformCheck struct {
	Dir    string
	HostOS string
	Probe  *cordova.Probe
}

var _ Check = (*PlatformCheck)(nil)

// NewPlatformCheck creates a PlatformCheck for dir on the current host.
func NewPlatformCheck(dir string) *PlatformCheck {
	return &PlatformCheck{Dir: dir, HostOS: runtime.GOOS, Probe: cordova.NewProbe()}
}

// Name returns the unique identifier for this check.
func (c *PlatformCheck) Name() string {
	return "platforms"
}

// Category returns the grouping for this check.
func (c *PlatformCheck) Category() string {
	return "project"
}

// Run executes the check.
func (c *PlatformCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	installed := c.Probe.InstalledPlatforms(c.Dir)
	defaultPlatform := cordova.DefaultPlatform(c.HostOS)
	result.Details = map[string]any{
		"installed": installed,
		"default":   defaultPlatform,
	}

	var unbuildable []string
	for _, p := range installed {
		if !cordova.CanBuild(p, c.HostOS) {
			unbuildable = append(unbuildable, p)
		}
	}

	switch {
	case len(unbuildable) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s installed but cannot be built on %s", strings.Join(unbuildable, ", "), c.HostOS)
	case len(installed) == 0:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("no platforms installed; ionx emulate will add %s", defaultPlatform)
	default:
		result.Status = SeverityPass
		result.Message = "installed: " + strings.Join(installed, ", ")
	}
	return result
}

// PluginCheck reports plugins declared in package.json that are missing
// from the plugins directory.
type PluginCheck struct {
	Dir   string
	Probe *cordova.Probe
}

var _ Check = (*PluginCheck)(nil)

// Name returns the unique identifier for this check.
func (c *PluginCheck) Name() string {
	return "plugins"
}

// Category returns the grouping for this check.
func (c *PluginCheck) Category() string {
	return "project"
}

// Run executes the check.
func (c *PluginCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.Probe.ArePluginsInstalled(c.Dir) {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d declared plugin(s) installed", len(cordova.RequiredPlugins(c.Dir)))
		return result
	}

	var missing []string
	for _, id := range cordova.RequiredPlugins(c.Dir) {
		if !paths.DirExists(filepath.Join(paths.PluginsDir(c.Dir), id)) {
			missing = append(missing, id)
		}
	}
	result.Status = SeverityWarning
	if len(missing) == 0 {
		result.Message = "plugins directory missing"
	} else {
		result.Message = "missing plugins: " + strings.Join(missing, ", ")
		result.Details = map[string]any{"missing": missing}
	}
	result.FixHint = "ionx emulate installs the default plugins on its next run"
	return result
}

// maxSecureFilePerm is the loosest mode accepted for project files.
const maxSecureFilePerm os.FileMode = 0o644

// maxSecretFilePerm is the loosest mode accepted for files holding secrets.
const maxSecretFilePerm os.FileMode = 0o600

// PermissionCheck looks for world-writable project files and a readable .env.
type PermissionCheck struct {
	Dir string
}

var _ Check = (*PermissionCheck)(nil)

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string {
	return "file-permissions"
}

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string {
	return "filesystem"
}

type permIssue struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Problem string `json:"problem"`
	FixHint string `json:"fix_hint"`
}

// Run executes the check.
func (c *PermissionCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	if runtime.GOOS == "windows" {
		result.Status = SeverityInfo
		result.Message = "permission checks skipped on windows"
		return result
	}

	files := []string{
		paths.ProjectFile(c.Dir),
		paths.BowerRCFile(c.Dir),
		paths.ConfigXML(c.Dir),
		paths.PackageJSON(c.Dir),
		paths.DotEnv(c.Dir),
	}

	var issues []permIssue
	checked := 0
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		checked++
		perm := info.Mode().Perm()
		switch {
		case perm&0o002 != 0:
			issues = append(issues, permIssue{path, formatPermissions(perm), "file is world-writable", "chmod 644 " + path})
		case filepath.Base(path) == paths.DotEnvFileName && perm > maxSecretFilePerm:
			issues = append(issues, permIssue{path, formatPermissions(perm), "file may hold secrets and is readable by others", "chmod 600 " + path})
		case perm > maxSecureFilePerm:
			issues = append(issues, permIssue{path, formatPermissions(perm), "file has overly permissive permissions", "chmod 644 " + path})
		}
	}

	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d project file(s) have safe permissions", checked)
		return result
	}

	hints := make([]string, len(issues))
	for i, issue := range issues {
		hints[i] = issue.FixHint
	}
	result.Status = SeverityWarning
	result.Message = fmt.Sprintf("found %d permission issue(s) across %d file(s)", len(issues), checked)
	result.Details = map[string]any{"issues": issues}
	result.FixHint = strings.Join(hints, "; ")
	return result
}

func formatPermissions(perm os.FileMode) string {
	return fmt.Sprintf("%04o", perm)
}

// describeFileError renders a project file error with its position when the
// file failed to parse.
func describeFileError(err error) string {
	var syntaxErr *fileutil.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("%s: syntax error at line %d, column %d",
			filepath.Base(syntaxErr.Path), syntaxErr.Line, syntaxErr.Column)
	}
	return errors.MessageOf(err)
}

// ProjectChecks returns the standard checks for a project directory. When
// loadErr is set, cfg should hold the defaults used in its place.
func ProjectChecks(dir string, cfg *config.Config, cfgPath string, loadErr error) []Check {
	return []Check{
		NewToolCheck("bower", cfg.Bower.Command, "npm install -g bower"),
		NewToolCheck("cordova", cfg.Cordova.Command, "npm install -g cordova"),
		&ToolConfigCheck{Config: cfg, Path: cfgPath, LoadErr: loadErr},
		&ProjectFileCheck{Store: project.NewStore(dir)},
		NewPlatformCheck(dir),
		&PluginCheck{Dir: dir, Probe: cordova.NewProbe()},
		&PermissionCheck{Dir: dir},
	}
}
