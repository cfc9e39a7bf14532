package config

import (
	"os"

	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current settings",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// note: settings file path parameter comes from the root command (--config)
		if err := configuration.ReadConfigFile(); err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		if path := viper.ConfigFileUsed(); path != "" {
			ui.Info("Using settings file at: %s", path)
		}
		ui.Success("Settings look good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
