package device

import (
	"github.com/fanctl/amdfan/internal"
	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore automatic fan control of devices left in manual mode",
	Long: `Restores automatic fan control of every device that is recorded as being
under manual control by an amdfan process which no longer exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configuration.ReadConfigFile(); err != nil {
			return err
		}

		reset, err := internal.ResetStaleSessions(configuration.CurrentConfig.DbPath)
		for _, path := range reset {
			ui.Success("Restored automatic fan control of %s", path)
		}
		if err != nil {
			return err
		}
		if len(reset) <= 0 {
			ui.Info("No device left in manual mode")
		}
		return nil
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
