package snapstore

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

type pebbleGauge struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(m *pebble.Metrics) float64
}

// Collector exports the pebble compaction, memtable and WAL figures of a
// store.
type Collector struct {
	db     *pebble.DB
	gauges []pebbleGauge
}

func NewCollector(s *Store) *Collector {
	c := &Collector{db: s.db}
	add := func(name, help string, kind prometheus.ValueType, value func(m *pebble.Metrics) float64) {
		c.gauges = append(c.gauges, pebbleGauge{
			desc:  prometheus.NewDesc(prometheus.BuildFQName("propsync", "pebble", name), help, nil, nil),
			kind:  kind,
			value: value,
		})
	}
	counter, gauge := prometheus.CounterValue, prometheus.GaugeValue

	add("compaction_count_total", "Compactions performed", counter,
		func(m *pebble.Metrics) float64 { return float64(m.Compact.Count) })
	add("compaction_estimated_debt_bytes", "Bytes to compact to reach a stable state", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.Compact.EstimatedDebt) })
	add("compaction_in_progress_bytes", "Bytes being compacted", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.Compact.InProgressBytes) })
	add("compaction_marked_files", "Files marked for compaction", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.Compact.MarkedFiles) })

	add("memtable_size_bytes", "Memtable size", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.MemTable.Size) })
	add("memtable_count", "Memtables", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.MemTable.Count) })
	add("memtable_zombie_size_bytes", "Zombie memtable size", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.MemTable.ZombieSize) })

	add("wal_files", "Live WAL files", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.WAL.Files) })
	add("wal_size_bytes", "Live WAL data", gauge,
		func(m *pebble.Metrics) float64 { return float64(m.WAL.Size) })
	add("wal_bytes_in_total", "Logical bytes written to the WAL", counter,
		func(m *pebble.Metrics) float64 { return float64(m.WAL.BytesIn) })
	add("wal_bytes_written_total", "Physical bytes written to the WAL", counter,
		func(m *pebble.Metrics) float64 { return float64(m.WAL.BytesWritten) })
	return c
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, g := range c.gauges {
		ch <- g.desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.db.Metrics()
	for _, g := range c.gauges {
		ch <- prometheus.MustNewConstMetric(g.desc, g.kind, g.value(m))
	}
}
