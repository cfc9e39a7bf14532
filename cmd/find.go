package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fanctl/amdfan/cmd/global"
	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"gopkg.in/yaml.v3"
)

const (
	outputFormatTable = "table"
	outputFormatYaml  = "yaml"
)

var outputFormat string

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find amdgpu devices",
	Long:  `Lists all hwmon devices of the amdgpu driver with their sensors and current fan settings`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configuration.ReadConfigFile(); err != nil {
			return err
		}

		devicePaths, err := hwmon.FindDevices(configuration.CurrentConfig.HwmonRoot)
		if err != nil {
			return err
		}

		var devices []hwmon.DeviceInfo
		for _, devicePath := range devicePaths {
			devices = append(devices, hwmon.DescribeDevice(devicePath))
		}

		switch outputFormat {
		case outputFormatYaml:
			encoder := yaml.NewEncoder(os.Stdout)
			encoder.SetIndent(2)
			if err := encoder.Encode(devices); err != nil {
				return err
			}
			return encoder.Close()
		case outputFormatTable:
			if len(devices) <= 0 {
				ui.Warning("No amdgpu device found in %s", configuration.CurrentConfig.HwmonRoot)
				return nil
			}
			return printDeviceTables(devices)
		default:
			return fmt.Errorf("unknown output format '%s', use one of: %s | %s", outputFormat, outputFormatTable, outputFormatYaml)
		}
	},
}

func printDeviceTables(devices []hwmon.DeviceInfo) error {
	tableConfig := global.TableConfig()

	for _, device := range devices {
		ui.Printfln("> %s (%s)", device.Path, device.Name)

		pwmText := "N/A"
		if device.Pwm != nil {
			pwmText = strconv.Itoa(*device.Pwm)
		}
		fanTable := table.Table{
			Headers: []string{"Fan    ", "Output", "PWM", "Mode"},
			Rows: [][]string{
				{"", hwmon.PwmFileName, pwmText, device.Mode},
			},
		}

		var sensorRows [][]string
		for _, sensor := range device.Sensors {
			valueText := "N/A"
			if sensor.Temperature != nil {
				valueText = strconv.Itoa(*sensor.Temperature)
			}
			_, file := filepath.Split(sensor.Input)
			sensorRows = append(sensorRows, []string{
				"", sensor.Sensor, fmt.Sprintf("%s (%s)", sensor.Label, file), valueText,
			})
		}
		sensorTable := table.Table{
			Headers: []string{"Sensors", "Name", "Label", "°C"},
			Rows:    sensorRows,
		}

		tables := []table.Table{fanTable, sensorTable}
		for idx, t := range tables {
			if t.Rows == nil {
				continue
			}
			var buf bytes.Buffer
			if err := t.WriteTable(&buf, tableConfig); err != nil {
				return fmt.Errorf("error printing table: %w", err)
			}
			if idx < (len(tables) - 1) {
				ui.Printf("%s", buf.String())
			} else {
				ui.Printfln("%s", buf.String())
			}
		}
	}
	return nil
}

func init() {
	findCmd.Flags().StringVarP(&outputFormat, "output", "o", outputFormatTable, "Output format, one of: table | yaml")

	rootCmd.AddCommand(findCmd)
}
