package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the tool's config directory.
const AppName = "ionx"

// Project file names, relative to the project root.
const (
	ProjectFileName  = "ionic.project"
	BowerRCFileName  = ".bowerrc"
	PackageJSONName  = "package.json"
	ConfigXMLName    = "config.xml"
	DotEnvFileName   = ".env"
	PlatformsDirName = "platforms"
	PluginsDirName   = "plugins"
)

// DefaultComponentDir is where bower installs components when .bowerrc does
// not say otherwise.
const DefaultComponentDir = "www/lib"

// ServicePackagePrefix prefixes a service name to form its bower package name.
const ServicePackagePrefix = "ionic-service-"

// PluginManifestName is the file inside a service package listing its plugins.
const PluginManifestName = "ionic-plugins.json"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns <ConfigHome>/ionx.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the default tool config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ProjectFile returns <projectDir>/ionic.project.
func ProjectFile(projectDir string) string {
	return filepath.Join(projectDir, ProjectFileName)
}

// BowerRCFile returns <projectDir>/.bowerrc.
func BowerRCFile(projectDir string) string {
	return filepath.Join(projectDir, BowerRCFileName)
}

// PackageJSON returns <projectDir>/package.json.
func PackageJSON(projectDir string) string {
	return filepath.Join(projectDir, PackageJSONName)
}

// ConfigXML returns <projectDir>/config.xml.
func ConfigXML(projectDir string) string {
	return filepath.Join(projectDir, ConfigXMLName)
}

// DotEnv returns <projectDir>/.env.
func DotEnv(projectDir string) string {
	return filepath.Join(projectDir, DotEnvFileName)
}

// PlatformDir returns <projectDir>/platforms/<platform>.
func PlatformDir(projectDir, platform string) string {
	return filepath.Join(projectDir, PlatformsDirName, platform)
}

// PluginsDir returns <projectDir>/plugins.
func PluginsDir(projectDir string) string {
	return filepath.Join(projectDir, PluginsDirName)
}

// ServicePackage returns the bower package name for a service.
func ServicePackage(service string) string {
	return ServicePackagePrefix + service
}

// PluginManifest returns
// <projectDir>/<componentDir>/ionic-service-<service>/ionic-plugins.json.
// An absolute componentDir is used as is.
func PluginManifest(projectDir, componentDir, service string) string {
	if !filepath.IsAbs(componentDir) {
		componentDir = filepath.Join(projectDir, componentDir)
	}
	return filepath.Join(componentDir, ServicePackage(service), PluginManifestName)
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
