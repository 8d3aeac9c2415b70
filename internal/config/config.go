package config

import (
	"os"
	"strings"
	"time"

	"github.com/onnwee/cachekit/internal/utils"
)

// Config holds demo-binary configuration derived from environment variables.
// The library itself takes its parameters at construction; only cmd binaries
// read the environment.
type Config struct {
	// Cache sizing
	LRUMaxEntries int
	TTLMaxEntries int
	DefaultTTL    time.Duration
	// Synthetic workload shape
	WorkloadOps  int
	WorkloadKeys int
	// Observability settings
	LogLevel string // log level: debug, info, warn, error
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}
	cached = &Config{
		LRUMaxEntries: utils.GetEnvAsInt("CACHE_LRU_MAX_ENTRIES", 1024),
		TTLMaxEntries: utils.GetEnvAsInt("CACHE_TTL_MAX_ENTRIES", 1024),
		DefaultTTL:    utils.GetEnvAsDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		WorkloadOps:   utils.GetEnvAsInt("WORKLOAD_OPS", 50000),
		WorkloadKeys:  utils.GetEnvAsInt("WORKLOAD_KEYS", 4096),
		LogLevel:      strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}
	return cached
}

// Reset drops the cached config so the next Load re-reads the environment.
// Intended for tests.
func Reset() {
	cached = nil
}
