package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ionx/internal/cli/prompt"
	"github.com/thoreinstein/ionx/internal/errors"
)

func newServiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Add or remove services and their native plugins",
		Long: `Manage Ionic services.

A service is a bower package named ionic-service-<name> whose
ionic-plugins.json lists the native plugins it needs. Adding a service links
the package, records it in ionic.project and installs each plugin. Removing
it reverses those steps.`,
		Example: `  # Add the push service
  ionx service add push

  # Remove a service, choosing it interactively
  ionx service remove

  # List the services recorded in ionic.project
  ionx service list

  See Also: ionx add`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		newServiceAddCmd(app),
		newServiceRemoveCmd(app),
		newServiceListCmd(app),
	)
	return cmd
}

func newServiceAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a service and install its plugins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnv()
			if err != nil {
				return err
			}
			name := args[0]
			if err := env.Services.Add(cmd.Context(), name); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Service %q added", name)
			return nil
		},
	}
}

func newServiceRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [name]",
		Aliases: []string{"rm"},
		Short:   "Remove a service and its plugins",
		Long: `Remove a service and uninstall its plugins.

Every step is attempted even when an earlier one fails; the failures are
reported together. Without a name, a picker lists the recorded services.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnv()
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				name, err = app.pickService(env)
				if err != nil {
					return err
				}
			}

			if err := env.Services.Remove(cmd.Context(), name); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Service %q removed", name)
			return nil
		},
	}
}

// pickService asks the user to choose one of the recorded services.
func (a *App) pickService(env *Env) (string, error) {
	if !a.interactive() {
		return "", errors.NewUserError(errors.ErrMissingName, "Pass the service to remove: ionx service remove <name>")
	}

	names, err := env.Services.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", errors.NewUserError(prompt.ErrNoChoices, "No services are recorded in ionic.project")
	}

	name, err := a.picker.Pick(names, func(service string) string {
		return servicePreview(env, service)
	})
	if err != nil {
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			return "", errors.NewExitError(nil, errors.ExitUser)
		}
		return "", err
	}
	return name, nil
}

// servicePreview lists the plugins a service would uninstall.
func servicePreview(env *Env, service string) string {
	dir, err := env.Store.ComponentDir()
	if err != nil {
		return errors.MessageOf(err)
	}
	manifest, err := env.Store.PluginManifest(dir, service)
	if err != nil {
		return errors.MessageOf(err)
	}
	var b strings.Builder
	b.WriteString("Service: " + service + "\n\nPlugins:\n")
	if len(manifest.Plugins) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, p := range manifest.Plugins {
		b.WriteString("  " + p.Name + " (" + p.ID + ")\n")
	}
	return b.String()
}

func newServiceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the services recorded in ionic.project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.loadEnv()
			if err != nil {
				return err
			}
			names, err := env.Services.List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(names) == 0 {
				fprintf(w, "No services installed.\n")
				return nil
			}
			for _, name := range names {
				fprintf(w, "%s\n", name)
			}
			return nil
		},
	}
}
