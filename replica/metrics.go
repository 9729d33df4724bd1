package replica

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var FlushCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "propsync",
	Subsystem: "replica",
	Name:      "flushes_total",
}, []string{"result"})

var BitsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "propsync",
	Subsystem: "replica",
	Name:      "bits_written_total",
}, []string{"shape"})

var DecodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "propsync",
	Subsystem: "replica",
	Name:      "decode_errors_total",
}, []string{"layout"})

var ObserverCount = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "propsync",
	Subsystem: "replica",
	Name:      "observers",
})

func registerMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{FlushCount, BitsWritten, DecodeErrors, ObserverCount} {
		err := reg.Register(c)
		var dup prometheus.AlreadyRegisteredError
		if err != nil && !errors.As(err, &dup) {
			return err
		}
	}
	return nil
}
