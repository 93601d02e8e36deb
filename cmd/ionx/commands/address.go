package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/ionx/internal/cli/prompt"
	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/cordova"
	"github.com/thoreinstein/ionx/internal/errors"
)

const addressPrompt = "Multiple addresses available.\nPlease select which address to use by entering its number from the list below:"

func newAddressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Choose the address the dev server is reached on",
		Long: `Reset the saved dev server address and choose it again.

The stored serve.address and serve.platform_address settings are cleared, the
host's IPv4 addresses are listed and the chosen one is saved. emulate and run
use it for live-reload unless --address is given.`,
		Example: `  # Pick a new address
  ionx address

See Also: ionx config get serve.platform_address`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.loadConfig(); err != nil {
				return err
			}
			viper.Set(config.KeyServeAddress, "")
			viper.Set(config.KeyServePlatformAddress, "")

			discovered, err := cordova.DiscoverAddresses(app.addresses)
			if err != nil {
				return errors.NewSystemError(err, "check the network interfaces of this host")
			}
			choices := append(discovered, cordova.Localhost)

			selector := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			address, err := selector.Select(addressPrompt, choices)
			if err != nil {
				if errors.Is(err, prompt.ErrSelectionCancelled) {
					return errors.NewExitError(nil, errors.ExitUser)
				}
				return errors.NewUserError(err, "enter the number of one of the listed addresses")
			}

			viper.Set(config.KeyServeAddress, address)
			viper.Set(config.KeyServePlatformAddress, address)
			if err := config.Save(); err != nil {
				return errors.NewSystemError(err, "check that "+config.Path()+" is writable")
			}
			success(cmd.OutOrStdout(), "Address set to %s", address)
			return nil
		},
	}
}
