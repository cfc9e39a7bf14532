package configuration

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/mitchellh/mapstructure"
)

// sensorTypeHookFunc decodes sensor names ("junction") and indices (2, "2") into hwmon.SensorType
func sensorTypeHookFunc() mapstructure.DecodeHookFuncType {
	sensorType := reflect.TypeOf(hwmon.SensorType(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != sensorType {
			return data, nil
		}

		var value string
		switch v := data.(type) {
		case hwmon.SensorType:
			return v, nil
		case string:
			value = v
		case int:
			value = strconv.Itoa(v)
		case int64:
			value = strconv.FormatInt(v, 10)
		case float64:
			value = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("cannot convert %T to a sensor type", data)
		}

		sensor, err := hwmon.ParseSensorType(value)
		if err != nil {
			return nil, err
		}
		return sensor, nil
	}
}
