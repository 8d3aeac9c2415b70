// Package metrics bridges cache statistics into Prometheus. It only builds
// collectors; mounting an HTTP handler for scraping is the host's job.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onnwee/cachekit/cache"
)

// StatsSource is any cache that can snapshot its counters. Both cache kinds
// and the loading wrapper satisfy it.
type StatsSource interface {
	Stats() cache.Stats
}

// Collector exposes a cache's statistics as Prometheus metrics, labeled with
// the cache name so one registry can hold several caches.
//
// Collect calls Stats() on the source. The core caches are single-owner, so
// either scrape through a serialized wrapper (see the loading package) or
// make sure scrapes do not race cache mutations.
type Collector struct {
	source StatsSource

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	evictions  *prometheus.Desc
	expired    *prometheus.Desc
	entries    *prometheus.Desc
	maxEntries *prometheus.Desc
	hitRate    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for source, labeled cache=name.
func NewCollector(name string, source StatsSource) *Collector {
	labels := prometheus.Labels{"cache": name}
	return &Collector{
		source: source,
		hits: prometheus.NewDesc(
			"cache_hits_total",
			"Total number of cache hits",
			nil, labels,
		),
		misses: prometheus.NewDesc(
			"cache_misses_total",
			"Total number of cache misses",
			nil, labels,
		),
		evictions: prometheus.NewDesc(
			"cache_evictions_total",
			"Total number of entries evicted to satisfy the capacity bound",
			nil, labels,
		),
		expired: prometheus.NewDesc(
			"cache_expired_total",
			"Total number of entries removed because their TTL elapsed",
			nil, labels,
		),
		entries: prometheus.NewDesc(
			"cache_entries",
			"Current number of cached entries",
			nil, labels,
		),
		maxEntries: prometheus.NewDesc(
			"cache_max_entries",
			"Configured cache capacity",
			nil, labels,
		),
		hitRate: prometheus.NewDesc(
			"cache_hit_rate",
			"Fraction of lookups that hit, 0 when no lookups occurred",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expired
	ch <- c.entries
	ch <- c.maxEntries
	ch <- c.hitRate
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(s.Expired))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.maxEntries, prometheus.GaugeValue, float64(s.MaxSize))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, s.HitRate())
}
