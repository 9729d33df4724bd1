package network

import "github.com/prometheus/client_golang/prometheus"

var BytesCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "propsync",
	Subsystem: "net",
	Name:      "bytes_total",
}, []string{"direction"})

var PeerCount = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "propsync",
	Subsystem: "net",
	Name:      "peers",
})

// Collectors lists the package metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{BytesCount, PeerCount}
}
