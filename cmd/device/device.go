package device

import (
	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
)

var devicePath string

var Command = &cobra.Command{
	Use:              "device",
	Short:            "Device related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&devicePath,
		"path", "p",
		"",
		"hwmon directory of the device (default is the first amdgpu device)",
	)
}

func getDevicePath() (string, error) {
	if devicePath != "" {
		return devicePath, nil
	}
	path, err := hwmon.FindFirstDevice(configuration.CurrentConfig.HwmonRoot)
	if err != nil {
		return "", err
	}
	ui.Debug("Using amdgpu device at %s", path)
	return path, nil
}
