package hwmon

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fanctl/amdfan/internal/util"
)

// ControlMode is the value of pwm1_enable.
// Possible values (unsure if these are true for all drivers):
// 0 - no control (results in max speed)
// 1 - manual pwm control
// 2 - automatic control by the driver/firmware
type ControlMode int

const (
	ControlModeDisabled  ControlMode = 0
	ControlModeManual    ControlMode = 1
	ControlModeAutomatic ControlMode = 2
)

var (
	manualModeBytes    = []byte("1\n")
	automaticModeBytes = []byte("2\n")
)

// ParseControlMode accepts a mode name ("disabled", "manual", "auto") or its numeric value.
func ParseControlMode(value string) (ControlMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "disabled":
		return ControlModeDisabled, nil
	case "manual", "pwm":
		return ControlModeManual, nil
	case "auto", "automatic":
		return ControlModeAutomatic, nil
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s, must be one of 0 | 1 | 2 | disabled | manual | auto", ErrUnknownMode, value)
	}
	mode := ControlMode(number)
	switch mode {
	case ControlModeDisabled, ControlModeManual, ControlModeAutomatic:
		return mode, nil
	}
	return 0, fmt.Errorf("%w: %d, must be one of 0 | 1 | 2 | disabled | manual | auto", ErrUnknownMode, number)
}

func (m ControlMode) String() string {
	switch m {
	case ControlModeDisabled:
		return "disabled"
	case ControlModeManual:
		return "manual"
	case ControlModeAutomatic:
		return "auto"
	}
	return fmt.Sprintf("unknown (%d)", int(m))
}

// Bytes returns the content written to pwm1_enable to select this mode.
func (m ControlMode) Bytes() []byte {
	switch m {
	case ControlModeManual:
		return manualModeBytes
	case ControlModeAutomatic:
		return automaticModeBytes
	}
	return []byte(strconv.Itoa(int(m)) + "\n")
}

// EnablePath returns the path of the pwm1_enable node of the given device.
func EnablePath(devicePath string) string {
	return filepath.Join(devicePath, EnableFileName)
}

// ReadControlMode reads the current pwm1_enable value of the device.
func ReadControlMode(devicePath string) (ControlMode, error) {
	path := EnablePath(devicePath)
	value, err := util.ReadIntFromFile(path)
	if err != nil {
		return 0, &DeviceError{Op: OpReadMode, Path: path, Err: err}
	}
	return ControlMode(value), nil
}

// WriteControlMode writes the given mode to pwm1_enable and verifies that the driver accepted it.
func WriteControlMode(devicePath string, mode ControlMode) error {
	path := EnablePath(devicePath)
	if err := util.WriteIntToFile(int(mode), path); err != nil {
		return &DeviceError{Op: OpWriteMode, Path: path, Err: err}
	}

	current, err := ReadControlMode(devicePath)
	if err != nil {
		return err
	}
	if current != mode {
		return &DeviceError{Op: OpWriteMode, Path: path, Err: fmt.Errorf("%w: mode stuck at %s", ErrModeNotPersisted, current)}
	}
	return nil
}
