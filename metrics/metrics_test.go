package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/onnwee/cachekit/cache"
)

func TestCollector_ExportsStats(t *testing.T) {
	c, err := cache.NewLRU[string, int](2)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts a
	c.Get("b")    // hit
	c.Get("a")    // miss

	col := NewCollector("sessions", c)

	expected := `
# HELP cache_entries Current number of cached entries
# TYPE cache_entries gauge
cache_entries{cache="sessions"} 2
# HELP cache_evictions_total Total number of entries evicted to satisfy the capacity bound
# TYPE cache_evictions_total counter
cache_evictions_total{cache="sessions"} 1
# HELP cache_hit_rate Fraction of lookups that hit, 0 when no lookups occurred
# TYPE cache_hit_rate gauge
cache_hit_rate{cache="sessions"} 0.5
# HELP cache_hits_total Total number of cache hits
# TYPE cache_hits_total counter
cache_hits_total{cache="sessions"} 1
# HELP cache_max_entries Configured cache capacity
# TYPE cache_max_entries gauge
cache_max_entries{cache="sessions"} 2
# HELP cache_misses_total Total number of cache misses
# TYPE cache_misses_total counter
cache_misses_total{cache="sessions"} 1
`
	err = testutil.CollectAndCompare(col, strings.NewReader(expected),
		"cache_entries",
		"cache_evictions_total",
		"cache_hit_rate",
		"cache_hits_total",
		"cache_max_entries",
		"cache_misses_total",
	)
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollector_RegistersPerCache(t *testing.T) {
	lru, err := cache.NewLRU[string, string](8)
	if err != nil {
		t.Fatalf("Failed to create lru cache: %v", err)
	}
	ttl, err := cache.NewTTL[string, string](0, 8)
	if err != nil {
		t.Fatalf("Failed to create ttl cache: %v", err)
	}

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(NewCollector("lru", lru))
	reg.MustRegister(NewCollector("ttl", ttl))

	lru.Put("k", "v")
	ttl.Put("k", "v")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	byName := map[string]int{}
	for _, mf := range families {
		byName[mf.GetName()] = len(mf.GetMetric())
	}
	if got := byName["cache_entries"]; got != 2 {
		t.Errorf("cache_entries series = %d, want 2 (one per cache label)", got)
	}
	if got := byName["cache_hits_total"]; got != 2 {
		t.Errorf("cache_hits_total series = %d, want 2", got)
	}
}
