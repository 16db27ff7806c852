package metric

import "github.com/prometheus/client_golang/prometheus"

// Sizer reports the number of stored keys.
type Sizer interface {
	Len() int
}

// StoreCollector reports the key count of a store at scrape time.
type StoreCollector struct {
	store Sizer
	keys  *prometheus.Desc
}

// NewStoreCollector creates a collector for store.
func NewStoreCollector(store Sizer) *StoreCollector {
	return &StoreCollector{
		store: store,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Stored keys, including expired keys not yet evicted.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.store.Len()))
}
