package hwmon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSensorType(t *testing.T) {
	expected := map[string]SensorType{
		"edge":     SensorTypeEdge,
		"1":        SensorTypeEdge,
		"Junction": SensorTypeJunction,
		" 2 ":      SensorTypeJunction,
		"memory":   SensorTypeMemory,
		"3":        SensorTypeMemory,
	}

	for input, output := range expected {
		// WHEN
		result, err := ParseSensorType(input)

		// THEN
		assert.NoError(t, err, input)
		assert.Equal(t, output, result, input)
	}
}

func TestParseSensorType_Unknown(t *testing.T) {
	// WHEN
	_, err := ParseSensorType("hotspot")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "edge | junction | memory")
}

func TestSensorType_FileName(t *testing.T) {
	assert.Equal(t, "temp1_input", SensorTypeEdge.FileName())
	assert.Equal(t, "temp2_input", SensorTypeJunction.FileName())
	assert.Equal(t, "temp3_input", SensorTypeMemory.FileName())
}

func TestSensorType_Set(t *testing.T) {
	// GIVEN
	sensor := DefaultSensorType

	// WHEN
	err := sensor.Set("memory")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, SensorTypeMemory, sensor)
	assert.Equal(t, "memory", sensor.String())
}
