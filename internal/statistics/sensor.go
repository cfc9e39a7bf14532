package statistics

import (
	"github.com/fanctl/amdfan/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	devicePaths []string
	value       *prometheus.Desc
	average     *prometheus.Desc
}

func NewSensorCollector(devicePaths []string) *SensorCollector {
	return &SensorCollector{
		devicePaths: devicePaths,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_celsius"),
			"Last temperature read from the sensor",
			[]string{"device", "sensor"}, nil,
		),
		average: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_avg_celsius"),
			"Moving average of the recent temperature readings",
			[]string{"device", "sensor"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.average
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, devicePath := range collector.devicePaths {
		status, ok := controller.GetStatus(devicePath)
		if !ok || status.Ticks == 0 {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, float64(status.Temperature), devicePath, status.Sensor)
		ch <- prometheus.MustNewConstMetric(collector.average, prometheus.GaugeValue, status.AvgTemperature, devicePath, status.Sensor)
	}
}
