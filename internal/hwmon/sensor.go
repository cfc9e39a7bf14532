package hwmon

import (
	"fmt"
	"strings"
)

// SensorType selects one of the temperature sensors exposed by an amdgpu hwmon device.
type SensorType int

const (
	SensorTypeEdge     SensorType = 1
	SensorTypeJunction SensorType = 2
	SensorTypeMemory   SensorType = 3

	// DefaultSensorType is used when no sensor is configured.
	DefaultSensorType = SensorTypeJunction
	// FallbackSensorType is used when the selected sensor does not exist on the device.
	FallbackSensorType = SensorTypeEdge
)

var sensorTypeNames = map[SensorType]string{
	SensorTypeEdge:     "edge",
	SensorTypeJunction: "junction",
	SensorTypeMemory:   "memory",
}

// SensorTypes lists all known sensor types in index order.
var SensorTypes = []SensorType{SensorTypeEdge, SensorTypeJunction, SensorTypeMemory}

// SensorTypeNames lists the names accepted by ParseSensorType.
func SensorTypeNames() []string {
	var names []string
	for _, s := range SensorTypes {
		names = append(names, s.String())
	}
	return names
}

// ParseSensorType accepts a sensor name ("edge", "junction", "memory") or its index (1..3).
func ParseSensorType(value string) (SensorType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for sensorType, name := range sensorTypeNames {
		if value == name || value == fmt.Sprintf("%d", int(sensorType)) {
			return sensorType, nil
		}
	}
	return 0, fmt.Errorf("unknown sensor type '%s', use one of: %s", value, strings.Join(SensorTypeNames(), " | "))
}

func (s SensorType) String() string {
	if name, ok := sensorTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("temp%d", int(s))
}

// FileName returns the name of the temperature input node of this sensor.
func (s SensorType) FileName() string {
	return fmt.Sprintf("temp%d_input", int(s))
}

// Set implements pflag.Value
func (s *SensorType) Set(value string) error {
	parsed, err := ParseSensorType(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value
func (s *SensorType) Type() string {
	return "sensor"
}

func (s SensorType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SensorType) UnmarshalText(text []byte) error {
	return s.Set(string(text))
}
