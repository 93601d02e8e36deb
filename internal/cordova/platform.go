package cordova

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/pkg/fileutil"
)

// Known platforms.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// HostDarwin is the only host OS that can build iOS.
const HostDarwin = "darwin"

// DefaultPlatform returns the platform used when none is given: iOS on
// darwin, Android everywhere else.
func DefaultPlatform(hostOS string) string {
	if hostOS == HostDarwin {
		return PlatformIOS
	}
	return PlatformAndroid
}

// CanBuild reports whether platform can be built on hostOS.
func CanBuild(platform, hostOS string) bool {
	return platform != PlatformIOS || hostOS == HostDarwin
}

// Probe inspects a project directory for installed platforms and plugins.
// It never modifies anything.
type Probe struct{}

// NewProbe returns a Probe.
func NewProbe() *Probe {
	return &Probe{}
}

// IsPlatformInstalled reports whether <dir>/platforms/<platform> exists.
func (p *Probe) IsPlatformInstalled(platform, dir string) bool {
	return paths.DirExists(paths.PlatformDir(dir, platform))
}

// ArePluginsInstalled reports whether <dir>/plugins exists and holds every
// plugin the project's package.json declares.
func (p *Probe) ArePluginsInstalled(dir string) bool {
	pluginsDir := paths.PluginsDir(dir)
	if !paths.DirExists(pluginsDir) {
		return false
	}
	for _, id := range RequiredPlugins(dir) {
		if !paths.DirExists(filepath.Join(pluginsDir, id)) {
			return false
		}
	}
	return true
}

// InstalledPlatforms lists the directories under <dir>/platforms.
func (p *Probe) InstalledPlatforms(dir string) []string {
	entries, err := os.ReadDir(filepath.Join(dir, paths.PlatformsDirName))
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

type packageJSON struct {
	Cordova struct {
		Plugins json.RawMessage `json:"plugins"`
	} `json:"cordova"`
}

// RequiredPlugins returns the plugin ids listed under cordova.plugins in
// <dir>/package.json, sorted. The list may be an object keyed by id or an
// array of ids. An unreadable file yields nil.
func RequiredPlugins(dir string) []string {
	var pkg packageJSON
	if err := fileutil.ReadJSON(paths.PackageJSON(dir), &pkg); err != nil {
		return nil
	}
	if len(pkg.Cordova.Plugins) == 0 {
		return nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(pkg.Cordova.Plugins, &byID); err == nil {
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids
	}

	var list []string
	if err := json.Unmarshal(pkg.Cordova.Plugins, &list); err == nil {
		sort.Strings(list)
		return list
	}
	return nil
}
