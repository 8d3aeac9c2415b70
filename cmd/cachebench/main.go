// cachebench drives a synthetic lookup workload against both cache kinds and
// reports their statistics. It is a demonstration host for the library, not
// part of the engine.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onnwee/cachekit/cache"
	"github.com/onnwee/cachekit/internal/config"
	"github.com/onnwee/cachekit/internal/logger"
	"github.com/onnwee/cachekit/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (falling back to system env)")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	lg := logger.WithComponent("cachebench")

	lru, err := cache.NewLRU[string, int](cfg.LRUMaxEntries)
	if err != nil {
		log.Fatalf("LRU init failed: %v", err)
	}
	ttl, err := cache.NewTTL[string, int](cfg.DefaultTTL, cfg.TTLMaxEntries)
	if err != nil {
		log.Fatalf("TTL init failed: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewCollector("lru", lru))
	registry.MustRegister(metrics.NewCollector("ttl", ttl))

	lg.Info("starting workload",
		"ops", cfg.WorkloadOps,
		"keys", cfg.WorkloadKeys,
		"lru_max", cfg.LRUMaxEntries,
		"ttl_max", cfg.TTLMaxEntries,
		"default_ttl", cfg.DefaultTTL,
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()
	runWorkload(rng, cfg, lru, ttl)

	ttl.SetTime(time.Now().UnixMilli())
	swept := ttl.Cleanup()

	lg.Info("workload complete",
		"elapsed", time.Since(start),
		"ttl_swept", swept,
	)
	logStats(lg, "lru", lru.Stats())
	logStats(lg, "ttl", ttl.Stats())

	families, err := registry.Gather()
	if err != nil {
		log.Fatalf("metrics gather failed: %v", err)
	}
	for _, mf := range families {
		lg.Debug("metric family", "name", mf.GetName(), "series", len(mf.GetMetric()))
	}
	lg.Info("metrics registered", "families", len(families))
}

// runWorkload issues a skewed get/put mix: most reads target a small hot set
// so hit rates are meaningful.
func runWorkload(rng *rand.Rand, cfg *config.Config, lru *cache.LRU[string, int], ttl *cache.TTL[string, int]) {
	hotKeys := cfg.WorkloadKeys / 8
	if hotKeys == 0 {
		hotKeys = 1
	}

	for i := 0; i < cfg.WorkloadOps; i++ {
		keySpace := cfg.WorkloadKeys
		if rng.Intn(100) < 80 {
			keySpace = hotKeys
		}
		key := fmt.Sprintf("key-%d", rng.Intn(keySpace))

		ttl.SetTime(time.Now().UnixMilli())
		switch rng.Intn(10) {
		case 0, 1, 2:
			lru.Put(key, i)
			ttl.Put(key, i)
		case 3:
			jitter := time.Duration(rng.Intn(5000)) * time.Millisecond
			if err := ttl.PutWithTTL(key, i, jitter); err != nil {
				log.Fatalf("PutWithTTL: %v", err)
			}
		default:
			lru.Get(key)
			ttl.Get(key)
		}
	}
}

func logStats(lg *slog.Logger, name string, s cache.Stats) {
	lg.Info("cache stats",
		"cache", name,
		"hits", s.Hits,
		"misses", s.Misses,
		"evictions", s.Evictions,
		"expired", s.Expired,
		"entries", s.Len,
		"max_entries", s.MaxSize,
		"hit_rate", fmt.Sprintf("%.3f", s.HitRate()),
	)
}
