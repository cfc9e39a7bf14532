package statistics

import (
	"strconv"

	"github.com/fanctl/amdfan/internal/curves"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemCurve = "curve"

// CurveCollector exposes the points of the loaded curve
type CurveCollector struct {
	table *curves.Table
	duty  *prometheus.Desc
}

func NewCurveCollector(table *curves.Table) *CurveCollector {
	return &CurveCollector{
		table: table,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "point_duty"),
			"Duty cycle of a curve point",
			[]string{"temperature"}, nil,
		),
	}
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
}

// Collect implements required collect function for all prometheus collectors
func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	for _, entry := range collector.table.Entries() {
		temperature := strconv.Itoa(int(entry.Temperature))
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, float64(entry.Duty), temperature)
	}
}
