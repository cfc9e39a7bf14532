package statistics

import (
	"github.com/fanctl/amdfan/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemController = "controller"

type ControllerCollector struct {
	devicePaths []string

	running         *prometheus.Desc
	ticks           *prometheus.Desc
	transientErrors *prometheus.Desc
}

func NewControllerCollector(devicePaths []string) *ControllerCollector {
	return &ControllerCollector{
		devicePaths: devicePaths,
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "running"),
			"1 if the controller loop of the device is running",
			[]string{"device"}, nil,
		),
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "ticks_total"),
			"Number of successful duty updates",
			[]string{"device"}, nil,
		),
		transientErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "transient_errors_total"),
			"Number of failed ticks that were retried",
			[]string{"device"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.running
	ch <- collector.ticks
	ch <- collector.transientErrors
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, devicePath := range collector.devicePaths {
		status, ok := controller.GetStatus(devicePath)
		if !ok {
			continue
		}
		running := 0.0
		if status.State == controller.StateRunning.String() {
			running = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.running, prometheus.GaugeValue, running, devicePath)
		ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(status.Ticks), devicePath)
		ch <- prometheus.MustNewConstMetric(collector.transientErrors, prometheus.CounterValue, float64(status.TransientErrors), devicePath)
	}
}
