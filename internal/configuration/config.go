package configuration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "amdfan"
)

type Configuration struct {
	DbPath    string `json:"dbPath"`
	HwmonRoot string `json:"hwmonRoot"`

	Sensor             hwmon.SensorType `json:"sensor"`
	TickRate           time.Duration    `json:"tickRate"`
	MaxTransientErrors int              `json:"maxTransientErrors"`

	Revert        RevertConfig `json:"revert"`
	Notifications bool         `json:"notifications"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
	Profiling  ProfilingConfig  `json:"profiling"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	initConfig(viper.GetViper(), cfgFile)
}

func initConfig(v *viper.Viper, cfgFile string) {
	v.SetConfigName("amdfan")

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Warning("Couldn't detect home directory: %v", err)
		} else {
			v.AddConfigPath(home)
		}
		v.AddConfigPath("/etc/amdfan/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	setDefaultValues(v)
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("dbPath", "/var/lib/amdfan/amdfan.db")
	v.SetDefault("hwmonRoot", hwmon.DefaultRoot)

	v.SetDefault("sensor", hwmon.DefaultSensorType.String())
	v.SetDefault("tickRate", 5*time.Second)
	v.SetDefault("maxTransientErrors", 3)

	v.SetDefault("revert.retries", 3)
	v.SetDefault("revert.backoff", 1*time.Second)
	v.SetDefault("notifications", true)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 9001)

	v.SetDefault("profiling.enabled", false)
	v.SetDefault("profiling.host", "localhost")
	v.SetDefault("profiling.port", 6060)
}

// ReadConfigFile reads the settings file, if there is one, and loads CurrentConfig.
// A missing settings file is only an error if it was given explicitly.
func ReadConfigFile() error {
	config, err := readConfigFile(viper.GetViper())
	if err != nil {
		return err
	}
	CurrentConfig = config
	return nil
}

func readConfigFile(v *viper.Viper) (Configuration, error) {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		ui.Debug("No settings file found, using defaults")
	} else if err != nil {
		return Configuration{}, fmt.Errorf("error reading settings file: %w", err)
	} else {
		// this is only populated _after_ ReadInConfig()
		ui.Debug("Using settings file at: %s", v.ConfigFileUsed())
	}

	config, err := loadConfig(v)
	if err != nil {
		return Configuration{}, err
	}
	err = validateConfig(&config)
	if err != nil {
		return Configuration{}, fmt.Errorf("invalid settings: %w", err)
	}
	return config, nil
}

// LoadConfig decodes the current viper state into CurrentConfig without validating it
func LoadConfig() error {
	config, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	CurrentConfig = config
	return nil
}

func loadConfig(v *viper.Viper) (Configuration, error) {
	var config Configuration
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		sensorTypeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Configuration{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	return config, nil
}
