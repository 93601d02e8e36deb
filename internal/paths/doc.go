// Package paths resolves the files ionx reads and writes.
//
// Tool configuration lives under the XDG config home (via github.com/adrg/xdg):
//
//	paths.ConfigFile() // ~/.config/ionx/config.yaml on Linux
//
// Project files are resolved relative to the project root:
//
//	| File                | Helper                           |
//	|---------------------|----------------------------------|
//	| ionic.project       | ProjectFile(dir)                 |
//	| .bowerrc            | BowerRCFile(dir)                 |
//	| package.json        | PackageJSON(dir)                 |
//	| config.xml          | ConfigXML(dir)                   |
//	| platforms/<name>    | PlatformDir(dir, name)           |
//	| plugins/            | PluginsDir(dir)                  |
//	| ionic-plugins.json  | PluginManifest(dir, comp, svc)   |
//
// Service bower packages are named "ionic-service-<name>" ([ServicePackage]).
package paths
