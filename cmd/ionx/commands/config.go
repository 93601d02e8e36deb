package commands

import (
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/editor"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/internal/shell"
)

// configKeys are the settings config get and set accept.
var configKeys = []string{
	config.KeyVersion,
	config.KeyBowerCommand,
	config.KeyCordovaCommand,
	config.KeyCordovaPlugins,
	config.KeyServeAddress,
	config.KeyServePlatformAddress,
	config.KeyServePort,
	config.KeyServeLiveReloadPort,
}

func newConfigCmd(app *App) *cobra.Command {
	var format string

	list := &cobra.Command{
		Use:   "list",
		Short: "List all configuration",
		Long:  `List all configuration values, including defaults and IONX_* overrides.`,
		Example: `  # List as YAML
  ionx config list

  # List as TOML
  ionx config list --format toml

See Also: ionx config get, ionx config set`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg, format)
		},
	}
	list.Flags().StringVar(&format, "format", "yaml", "output format: yaml, json, toml")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ionx configuration",
		Long: `Manage ionx configuration stored in $XDG_CONFIG_HOME/ionx/config.yaml.

Keys:
  ` + strings.Join(configKeys, "\n  ") + `

Without a subcommand, lists all configuration values.`,
		Example: `  # Use npx to run cordova
  ionx config set cordova.command "npx cordova"

  # Get the dev server port
  ionx config get serve.port

See Also: ionx address, ionx doctor`,
		RunE: list.RunE,
	}
	cmd.Flags().AddFlagSet(list.Flags())

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Long:  `Get a single configuration value by key. List values are printed one per line.`,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.loadConfig(); err != nil {
					return err
				}
				return runConfigGet(cmd.OutOrStdout(), args[0])
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set a configuration value and save the file.

cordova.default_plugins takes a comma-separated list.`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.loadConfig(); err != nil {
					return err
				}
				return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Open configuration in $EDITOR",
			Long: `Open the configuration file in your editor.

Uses $EDITOR, then $VISUAL, then nano, then vi. The file is created with the
defaults when missing and validated after the editor exits.`,
			Example: `  # Edit with a specific editor
  EDITOR="code --wait" ionx config edit`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigEdit(cmd, app)
			},
		},
		list,
	)
	return cmd
}

func runConfigEdit(cmd *cobra.Command, app *App) error {
	if _, err := app.loadConfig(); err != nil {
		return err
	}
	path := config.Path()
	if !paths.FileExists(path) {
		if err := config.SaveTo(path, config.Default()); err != nil {
			return errors.NewSystemError(err, "check that "+filepath.Dir(path)+" is writable")
		}
	}

	fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	runner := app.runner
	if runner == nil {
		runner = shell.NewExecRunner()
	}
	if err := editor.Open(cmd.Context(), runner, path); err != nil {
		return errors.NewSystemError(err, "set $EDITOR to an installed editor")
	}

	viper.Reset()
	config.Init()
	cfg, err := config.Load(path)
	if err != nil {
		return errors.NewConfigError(err)
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.NewUserError(errors.Join(errs...), "run ionx config edit again to fix the values")
	}
	success(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}

func checkKey(key string) error {
	if slices.Contains(configKeys, key) {
		return nil
	}
	return errors.NewUserError(errors.Newf("unknown configuration key %q", key),
		"valid keys: "+strings.Join(configKeys, ", "))
}

func runConfigGet(w io.Writer, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fprintf(w, "%v\n", item)
		}
	case []string:
		for _, item := range v {
			fprintf(w, "%s\n", item)
		}
	default:
		value := viper.GetString(key)
		if value == "" {
			value = "not set"
		}
		fprintf(w, "%s\n", value)
	}
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	var parsed any
	switch key {
	case config.KeyVersion, config.KeyServePort, config.KeyServeLiveReloadPort:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewUserError(errors.Newf("%s must be a number, got %q", key, value), "")
		}
		parsed = n
	case config.KeyCordovaPlugins:
		parsed = splitList(value)
	default:
		parsed = value
	}

	viper.Set(key, parsed)
	if err := config.Save(); err != nil {
		if errors.Is(err, errors.ErrInvalidConfig) {
			return errors.NewUserError(err, "")
		}
		return errors.NewSystemError(err, "check that "+config.Path()+" is writable")
	}
	success(w, "Set %s = %v", key, parsed)
	return nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var items []string
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format), "use one of: yaml, json, toml")
	}
	if err != nil {
		return errors.Wrapf(err, "marshaling config as %s", format)
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing config")
}
