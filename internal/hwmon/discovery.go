package hwmon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fanctl/amdfan/internal/util"
)

const (
	DefaultRoot = "/sys/class/hwmon"
	AmdgpuName  = "amdgpu"
)

// FindDevices returns all hwmon directories below root that belong to the amdgpu driver.
func FindDevices(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot list hwmon devices in %s: %w", root, err)
	}

	var result []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if IsAmdgpuDevice(path) {
			result = append(result, path)
		}
	}
	return result, nil
}

// FindFirstDevice returns the first amdgpu hwmon directory below root.
func FindFirstDevice(root string) (string, error) {
	devices, err := FindDevices(root)
	if err != nil {
		return "", err
	}
	if len(devices) <= 0 {
		return "", fmt.Errorf("%w in %s", ErrNoDevice, root)
	}
	return devices[0], nil
}

// IsAmdgpuDevice checks whether the name file of the given hwmon directory identifies the amdgpu driver.
func IsAmdgpuDevice(devicePath string) bool {
	name, err := util.ReadStringFromFile(filepath.Join(devicePath, NameFileName))
	return err == nil && name == AmdgpuName
}

type SensorReading struct {
	Sensor      string `json:"sensor" yaml:"sensor"`
	Label       string `json:"label" yaml:"label"`
	Input       string `json:"input" yaml:"input"`
	Temperature *int   `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// DeviceInfo is a read-only summary of a hwmon device, used for listings.
type DeviceInfo struct {
	Path    string          `json:"path" yaml:"path"`
	Name    string          `json:"name" yaml:"name"`
	Sensors []SensorReading `json:"sensors" yaml:"sensors"`
	Pwm     *int            `json:"pwm,omitempty" yaml:"pwm,omitempty"`
	Mode    string          `json:"mode" yaml:"mode"`
}

// DescribeDevice reads the current state of the device without modifying it.
// Values that cannot be read are left empty.
func DescribeDevice(devicePath string) DeviceInfo {
	name, _ := util.ReadStringFromFile(filepath.Join(devicePath, NameFileName))
	info := DeviceInfo{
		Path: devicePath,
		Name: name,
		Mode: "N/A",
	}

	for _, sensor := range SensorTypes {
		input := filepath.Join(devicePath, sensor.FileName())
		if _, err := os.Stat(input); errors.Is(err, os.ErrNotExist) {
			continue
		}

		label, err := util.ReadStringFromFile(strings.TrimSuffix(input, "input") + "label")
		if err != nil || len(label) <= 0 {
			label = sensor.String()
		}

		reading := SensorReading{
			Sensor: sensor.String(),
			Label:  label,
			Input:  input,
		}
		if value, err := util.ReadIntFromFile(input); err == nil {
			degrees := value / 1000
			reading.Temperature = &degrees
		}
		info.Sensors = append(info.Sensors, reading)
	}

	if pwm, err := util.ReadIntFromFile(filepath.Join(devicePath, PwmFileName)); err == nil {
		info.Pwm = &pwm
	}
	if mode, err := ReadControlMode(devicePath); err == nil {
		info.Mode = mode.String()
	}

	return info
}
