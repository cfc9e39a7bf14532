package configuration

import (
	"errors"
	"fmt"
	"time"

	"github.com/fanctl/amdfan/internal/hwmon"
	"golang.org/x/exp/slices"
)

const minTickRate = 100 * time.Millisecond

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.DbPath == "" {
		return errors.New("dbPath must not be empty")
	}
	if config.HwmonRoot == "" {
		return errors.New("hwmonRoot must not be empty")
	}

	if !slices.Contains(hwmon.SensorTypes, config.Sensor) {
		return fmt.Errorf("unknown sensor '%s'", config.Sensor)
	}
	if config.TickRate < minTickRate {
		return fmt.Errorf("tickRate must be at least %s, got %s", minTickRate, config.TickRate)
	}
	if config.MaxTransientErrors < 0 {
		return fmt.Errorf("maxTransientErrors must not be negative, got %d", config.MaxTransientErrors)
	}

	if config.Revert.Retries < 1 {
		return fmt.Errorf("revert.retries must be at least 1, got %d", config.Revert.Retries)
	}
	if config.Revert.Backoff < 0 {
		return fmt.Errorf("revert.backoff must not be negative, got %s", config.Revert.Backoff)
	}

	var ports []int
	if config.Statistics.Enabled {
		ports = append(ports, config.Statistics.Port)
	}
	if config.Api.Enabled {
		ports = append(ports, config.Api.Port)
	}
	if config.Profiling.Enabled {
		ports = append(ports, config.Profiling.Port)
	}
	for i, port := range ports {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port %d", port)
		}
		if slices.Contains(ports[i+1:], port) {
			return fmt.Errorf("port %d is used by more than one server", port)
		}
	}

	return nil
}
