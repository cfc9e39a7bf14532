package hwmon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fanctl/amdfan/internal/ui"
)

const (
	PwmFileName    = "pwm1"
	EnableFileName = "pwm1_enable"
	NameFileName   = "name"
)

// Device owns the open control files of a single hwmon device.
// It is not safe for concurrent use.
type Device struct {
	path   string
	sensor SensorType

	tempInput *os.File
	pwmOutput *os.File

	// scratch buffers reused across cycles
	readBuf  bytes.Buffer
	writeBuf []byte
}

// Open opens the temperature input of the given sensor and the pwm output of the device
// at devicePath. If the selected sensor does not exist, the edge sensor is used instead.
func Open(devicePath string, sensor SensorType) (*Device, error) {
	tempPath := filepath.Join(devicePath, sensor.FileName())
	if _, err := os.Stat(tempPath); errors.Is(err, os.ErrNotExist) && sensor != FallbackSensorType {
		ui.Warning("Sensor '%s' not available at %s, using fallback sensor '%s'", sensor, tempPath, FallbackSensorType)
		sensor = FallbackSensorType
		tempPath = filepath.Join(devicePath, sensor.FileName())
	}

	tempInput, err := os.Open(tempPath)
	if err != nil {
		return nil, &DeviceError{Op: OpOpenTemperature, Path: tempPath, Err: err}
	}

	pwmPath := filepath.Join(devicePath, PwmFileName)
	pwmOutput, err := os.OpenFile(pwmPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		_ = tempInput.Close()
		return nil, &DeviceError{Op: OpOpenDuty, Path: pwmPath, Err: err}
	}

	return &Device{
		path:      devicePath,
		sensor:    sensor,
		tempInput: tempInput,
		pwmOutput: pwmOutput,
		writeBuf:  make([]byte, 0, len("255\n")),
	}, nil
}

// Path returns the hwmon directory of this device.
func (d *Device) Path() string {
	return d.path
}

// Sensor returns the sensor that is actually read, which differs from the
// requested one if the fallback sensor had to be used.
func (d *Device) Sensor() SensorType {
	return d.sensor
}

// ReadTemperature returns the current temperature in whole degrees Celsius,
// truncated toward zero.
func (d *Device) ReadTemperature() (int16, error) {
	d.readBuf.Reset()
	if _, err := d.readBuf.ReadFrom(d.tempInput); err != nil {
		return 0, &DeviceError{Op: OpReadTemperature, Path: d.tempInput.Name(), Err: err}
	}
	if _, err := d.tempInput.Seek(0, io.SeekStart); err != nil {
		return 0, &DeviceError{Op: OpReadTemperature, Path: d.tempInput.Name(), Err: err}
	}

	value, err := parseMilliDegrees(d.readBuf.Bytes())
	if err != nil {
		return 0, &DeviceError{Op: OpReadTemperature, Path: d.tempInput.Name(), Err: err}
	}
	return value, nil
}

// parseMilliDegrees parses a tempN_input value. The trailing newline is stripped and
// the three millidegree digits are dropped by truncating division, so "45999\n" is 45.
func parseMilliDegrees(content []byte) (int16, error) {
	text := string(bytes.TrimSpace(content))
	milliDegrees, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidReading, text, err)
	}
	degrees := milliDegrees / 1000
	if degrees < math.MinInt16 || degrees > math.MaxInt16 {
		return 0, fmt.Errorf("%w %q: out of range", ErrInvalidReading, text)
	}
	return int16(degrees), nil
}

// WriteDuty writes the given duty cycle (0..255) to the pwm output.
func (d *Device) WriteDuty(duty uint8) error {
	d.writeBuf = strconv.AppendUint(d.writeBuf[:0], uint64(duty), 10)
	d.writeBuf = append(d.writeBuf, '\n')
	if _, err := d.pwmOutput.WriteAt(d.writeBuf, 0); err != nil {
		return &DeviceError{Op: OpWriteDuty, Path: d.pwmOutput.Name(), Err: err}
	}
	return nil
}

func (d *Device) Close() error {
	return errors.Join(d.tempInput.Close(), d.pwmOutput.Close())
}
