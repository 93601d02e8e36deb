package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ionx/internal/logging"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add an ion or bower component to the project",
		Long: `Install a bower component with bower install --save-dev.

The component is recorded in bower.json as a dev dependency.`,
		Example: `  # Add a component
  ionx add ionic-contrib-tinder-cards

See Also: ionx service add`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnv()
			if err != nil {
				return err
			}
			name := args[0]
			if err := env.Bower.Check("add"); err != nil {
				return err
			}
			if err := env.Bower.Install(cmd.Context(), name); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("bower component installed", slog.String("component", name))
			success(cmd.OutOrStdout(), "Bower component installed - %s", name)
			return nil
		},
	}
}
