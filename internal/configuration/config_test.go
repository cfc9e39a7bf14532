package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func writeSettings(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "amdfan.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestReadConfigFile_Defaults(t *testing.T) {
	// GIVEN
	v := viper.New()
	initConfig(v, "")
	v.SetConfigName("amdfan-settings-that-do-not-exist")

	// WHEN
	config, err := readConfigFile(v)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/var/lib/amdfan/amdfan.db", config.DbPath)
	assert.Equal(t, "/sys/class/hwmon", config.HwmonRoot)
	assert.Equal(t, hwmon.SensorTypeJunction, config.Sensor)
	assert.Equal(t, 5*time.Second, config.TickRate)
	assert.Equal(t, 3, config.MaxTransientErrors)
	assert.Equal(t, 3, config.Revert.Retries)
	assert.Equal(t, 1*time.Second, config.Revert.Backoff)
	assert.True(t, config.Notifications)
	assert.False(t, config.Statistics.Enabled)
	assert.Equal(t, 9000, config.Statistics.Port)
	assert.False(t, config.Api.Enabled)
	assert.Equal(t, "localhost", config.Api.Host)
	assert.Equal(t, 9001, config.Api.Port)
}

func TestReadConfigFile_SettingsFile(t *testing.T) {
	// GIVEN
	path := writeSettings(t, `
dbPath: /tmp/amdfan-test.db
sensor: memory
tickRate: 2s
maxTransientErrors: 0
revert:
  retries: 5
  backoff: 250ms
notifications: false
api:
  enabled: true
  port: 9100
`)
	v := viper.New()
	initConfig(v, path)

	// WHEN
	config, err := readConfigFile(v)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/amdfan-test.db", config.DbPath)
	assert.Equal(t, hwmon.SensorTypeMemory, config.Sensor)
	assert.Equal(t, 2*time.Second, config.TickRate)
	assert.Equal(t, 0, config.MaxTransientErrors)
	assert.Equal(t, 5, config.Revert.Retries)
	assert.Equal(t, 250*time.Millisecond, config.Revert.Backoff)
	assert.False(t, config.Notifications)
	assert.True(t, config.Api.Enabled)
	assert.Equal(t, "localhost", config.Api.Host)
	assert.Equal(t, 9100, config.Api.Port)
}

func TestReadConfigFile_SensorIndex(t *testing.T) {
	// GIVEN
	path := writeSettings(t, "sensor: 1\n")
	v := viper.New()
	initConfig(v, path)

	// WHEN
	config, err := readConfigFile(v)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, hwmon.SensorTypeEdge, config.Sensor)
}

func TestReadConfigFile_UnknownSensor(t *testing.T) {
	// GIVEN
	path := writeSettings(t, "sensor: hotspot\n")
	v := viper.New()
	initConfig(v, path)

	// WHEN
	_, err := readConfigFile(v)

	// THEN
	assert.Error(t, err)
}

func TestReadConfigFile_Environment(t *testing.T) {
	// GIVEN
	t.Setenv("AMDFAN_TICKRATE", "1500ms")
	t.Setenv("AMDFAN_REVERT_RETRIES", "7")
	v := viper.New()
	initConfig(v, "")
	v.SetConfigName("amdfan-settings-that-do-not-exist")

	// WHEN
	config, err := readConfigFile(v)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, config.TickRate)
	assert.Equal(t, 7, config.Revert.Retries)
}

func TestReadConfigFile_ExplicitFileMissing(t *testing.T) {
	// GIVEN
	v := viper.New()
	initConfig(v, filepath.Join(t.TempDir(), "missing.yaml"))

	// WHEN
	_, err := readConfigFile(v)

	// THEN
	assert.Error(t, err)
}

func TestReadConfigFile_Invalid(t *testing.T) {
	// GIVEN
	path := writeSettings(t, "tickRate: 10ms\n")
	v := viper.New()
	initConfig(v, path)

	// WHEN
	_, err := readConfigFile(v)

	// THEN
	assert.ErrorContains(t, err, "tickRate")
}
