package hwmon

import (
	"errors"
	"fmt"
)

const (
	OpOpenTemperature = "open temperature node"
	OpOpenDuty        = "open duty node"
	OpReadTemperature = "read temperature"
	OpWriteDuty       = "write duty"
	OpReadMode        = "read control mode"
	OpWriteMode       = "write control mode"
)

var (
	ErrNoDevice         = errors.New("no amdgpu hwmon device found")
	ErrInvalidReading   = errors.New("invalid temperature reading")
	ErrUnknownMode      = errors.New("unknown control mode")
	ErrModeNotPersisted = errors.New("control mode was not applied")
)

// DeviceError records an error and the operation and file path that caused it.
type DeviceError struct {
	Op   string
	Path string
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
