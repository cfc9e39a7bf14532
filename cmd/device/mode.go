package device

import (
	"fmt"

	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [auto|manual|disabled|0|1|2]",
	Short: "Get/Set the current fan control mode of a device",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		if err := configuration.ReadConfigFile(); err != nil {
			return err
		}
		path, err := getDevicePath()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			mode, err := hwmon.ParseControlMode(args[0])
			if err != nil {
				return err
			}
			err = hwmon.WriteControlMode(path, mode)
			if err != nil {
				return err
			}
		}

		mode, err := hwmon.ReadControlMode(path)
		if err != nil {
			return err
		}

		switch mode {
		case hwmon.ControlModeDisabled:
			fmt.Printf("No control, 100%% all the time (%d)\n", mode)
		case hwmon.ControlModeManual:
			fmt.Printf("Manual PWM control, gives amdfan control (%d)\n", mode)
		case hwmon.ControlModeAutomatic:
			fmt.Printf("Automatic control by the driver (%d)\n", mode)
		default:
			fmt.Printf("Unknown (%d)\n", mode)
		}

		return nil
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
