package config

import (
	"os"

	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// settings in the form they are written in a settings file
type settingsFile struct {
	DbPath             string `yaml:"dbPath"`
	HwmonRoot          string `yaml:"hwmonRoot"`
	Sensor             string `yaml:"sensor"`
	TickRate           string `yaml:"tickRate"`
	MaxTransientErrors int    `yaml:"maxTransientErrors"`
	Revert             struct {
		Retries int    `yaml:"retries"`
		Backoff string `yaml:"backoff"`
	} `yaml:"revert"`
	Notifications bool                           `yaml:"notifications"`
	Statistics    configuration.StatisticsConfig `yaml:"statistics"`
	Api           configuration.ApiConfig        `yaml:"api"`
	Profiling     configuration.ProfilingConfig  `yaml:"profiling"`
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long:  `Prints the settings after applying defaults, the settings file and environment variables`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configuration.ReadConfigFile(); err != nil {
			return err
		}
		current := configuration.CurrentConfig

		settings := settingsFile{
			DbPath:             current.DbPath,
			HwmonRoot:          current.HwmonRoot,
			Sensor:             current.Sensor.String(),
			TickRate:           current.TickRate.String(),
			MaxTransientErrors: current.MaxTransientErrors,
			Notifications:      current.Notifications,
			Statistics:         current.Statistics,
			Api:                current.Api,
			Profiling:          current.Profiling,
		}
		settings.Revert.Retries = current.Revert.Retries
		settings.Revert.Backoff = current.Revert.Backoff.String()

		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(settings); err != nil {
			return err
		}
		return encoder.Close()
	},
}

func init() {
	Command.AddCommand(showCmd)
}
