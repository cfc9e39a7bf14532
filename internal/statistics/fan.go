package statistics

import (
	"github.com/fanctl/amdfan/internal/controller"
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemFan = "fan"

type FanCollector struct {
	devicePaths []string
	duty        *prometheus.Desc
	percent     *prometheus.Desc
}

func NewFanCollector(devicePaths []string) *FanCollector {
	return &FanCollector{
		devicePaths: devicePaths,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemFan, "duty"),
			"Last duty cycle written to the device (0-255)",
			[]string{"device"}, nil,
		),
		percent: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemFan, "duty_percent"),
			"Last duty cycle written to the device in percent",
			[]string{"device"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.percent
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for _, devicePath := range collector.devicePaths {
		status, ok := controller.GetStatus(devicePath)
		if !ok || status.Ticks == 0 {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, float64(status.Duty), devicePath)
		ch <- prometheus.MustNewConstMetric(collector.percent, prometheus.GaugeValue, curves.DutyToPercent(status.Duty), devicePath)
	}
}
