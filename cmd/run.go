package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fanctl/amdfan/internal"
	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var (
	curveFile  string
	devicePath string
)

var runCmd = &cobra.Command{
	Use:   "run [" + strings.Join(hwmon.SensorTypeNames(), "|") + "]",
	Short: "Control the fan of an amdgpu device using a curve",
	Long: `Reads the selected temperature sensor of the device periodically and writes
the fan duty cycle the curve yields for it, until interrupted.
Automatic fan control is restored when amdfan exits.`,
	Args:         cobra.MaximumNArgs(1),
	ValidArgs:    hwmon.SensorTypeNames(),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader()

		if err := configuration.ReadConfigFile(); err != nil {
			ui.ErrorAndNotify("Settings Validation Error", err.Error())
			return err
		}
		ui.SetNotificationsEnabled(configuration.CurrentConfig.Notifications)

		config := internal.NewSessionConfig(configuration.CurrentConfig)
		config.CurveFile = curveFile
		config.DevicePath = devicePath
		if len(args) > 0 {
			sensor, err := hwmon.ParseSensorType(args[0])
			if err != nil {
				return err
			}
			config.Sensor = sensor
		}

		if unix.Geteuid() != 0 {
			ui.Warning("amdfan is not running as root, writing to the hwmon device will most likely fail")
		}

		err := internal.RunSession(context.Background(), config)
		if err != nil {
			return fmt.Errorf("session ended with an error: %w", err)
		}

		ui.Info("Done.")
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&curveFile, "curve", "c", "", "curve file with one '<temperature> => <percent>' point per line")
	_ = runCmd.MarkFlagRequired("curve")
	runCmd.Flags().StringVarP(&devicePath, "path", "p", "", "hwmon directory of the device (default is the first amdgpu device)")

	rootCmd.AddCommand(runCmd)
}
