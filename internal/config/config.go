// Package config provides configuration management for ionx using Viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/pkg/fileutil"
)

// EnvPrefix prefixes environment overrides, e.g. IONX_CORDOVA_COMMAND.
const EnvPrefix = "IONX"

// Configuration keys.
const (
	KeyVersion              = "version"
	KeyBowerCommand         = "bower.command"
	KeyCordovaCommand       = "cordova.command"
	KeyCordovaPlugins       = "cordova.default_plugins"
	KeyServeAddress         = "serve.address"
	KeyServePlatformAddress = "serve.platform_address"
	KeyServePort            = "serve.port"
	KeyServeLiveReloadPort  = "serve.livereload_port"
)

// Default values.
const (
	DefaultBowerCommand   = "bower"
	DefaultCordovaCommand = "cordova"
	DefaultServePort      = 8100
	DefaultLiveReloadPort = 35729
)

// DefaultPlugins are installed into a project that has no plugins yet.
var DefaultPlugins = []string{
	"cordova-plugin-device",
	"cordova-plugin-console",
	"cordova-plugin-whitelist",
	"cordova-plugin-splashscreen",
	"cordova-plugin-statusbar",
	"ionic-plugin-keyboard",
}

// Config represents the top-level configuration structure.
type Config struct {
	Version int           `mapstructure:"version" yaml:"version" json:"version" toml:"version"`
	Bower   BowerConfig   `mapstructure:"bower" yaml:"bower" json:"bower" toml:"bower"`
	Cordova CordovaConfig `mapstructure:"cordova" yaml:"cordova" json:"cordova" toml:"cordova"`
	Serve   ServeConfig   `mapstructure:"serve" yaml:"serve" json:"serve" toml:"serve"`
}

// BowerConfig configures the bower package manager wrapper.
type BowerConfig struct {
	// Command is the bower command line, e.g. "bower" or "npx bower".
	Command string `mapstructure:"command" yaml:"command" json:"command" toml:"command"`
}

// CordovaConfig configures the native build tool wrapper.
type CordovaConfig struct {
	// Command is the cordova command line, e.g. "cordova" or "npx cordova".
	Command string `mapstructure:"command" yaml:"command" json:"command" toml:"command"`

	// DefaultPlugins are added when a project has no plugins installed.
	DefaultPlugins []string `mapstructure:"default_plugins" yaml:"default_plugins" json:"default_plugins" toml:"default_plugins"`
}

// ServeConfig holds the dev server settings used by live-reload.
type ServeConfig struct {
	Address         string `mapstructure:"address" yaml:"address" json:"address" toml:"address"`
	PlatformAddress string `mapstructure:"platform_address" yaml:"platform_address" json:"platform_address" toml:"platform_address"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port" toml:"port"`
	LiveReloadPort  int    `mapstructure:"livereload_port" yaml:"livereload_port" json:"livereload_port" toml:"livereload_port"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Bower:   BowerConfig{Command: DefaultBowerCommand},
		Cordova: CordovaConfig{
			Command:        DefaultCordovaCommand,
			DefaultPlugins: append([]string(nil), DefaultPlugins...),
		},
		Serve: ServeConfig{
			Port:           DefaultServePort,
			LiveReloadPort: DefaultLiveReloadPort,
		},
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault(KeyVersion, def.Version)
	viper.SetDefault(KeyBowerCommand, def.Bower.Command)
	viper.SetDefault(KeyCordovaCommand, def.Cordova.Command)
	viper.SetDefault(KeyCordovaPlugins, def.Cordova.DefaultPlugins)
	viper.SetDefault(KeyServeAddress, "")
	viper.SetDefault(KeyServePlatformAddress, "")
	viper.SetDefault(KeyServePort, def.Serve.Port)
	viper.SetDefault(KeyServeLiveReloadPort, def.Serve.LiveReloadPort)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when nothing is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		case path != "" && errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return Current()
}

// Current unmarshals the live viper settings.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// Path returns the file viper loaded, or the default config file location.
func Path() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return paths.ConfigFile()
}

// Save writes the live viper settings to Path().
func Save() error {
	cfg, err := Current()
	if err != nil {
		return err
	}
	return SaveTo(Path(), cfg)
}

// SaveTo writes cfg as YAML to path, creating the parent directory.
func SaveTo(path string, cfg *Config) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
