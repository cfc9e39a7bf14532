package statistics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "amdfan"
)

// Register adds the collector to the default registry. Registering an equal
// collector twice is not an error.
func Register(collector prometheus.Collector) error {
	return RegisterWith(prometheus.DefaultRegisterer, collector)
}

func RegisterWith(registerer prometheus.Registerer, collector prometheus.Collector) error {
	err := registerer.Register(collector)
	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		return nil
	}
	return err
}
