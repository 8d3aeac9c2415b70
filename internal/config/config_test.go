package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	// ensure defaults kick in with empty env
	os.Unsetenv("CACHE_LRU_MAX_ENTRIES")
	os.Unsetenv("CACHE_TTL_MAX_ENTRIES")
	os.Unsetenv("CACHE_DEFAULT_TTL")
	os.Unsetenv("WORKLOAD_OPS")
	os.Unsetenv("WORKLOAD_KEYS")

	cfg := Load()
	if cfg.LRUMaxEntries != 1024 {
		t.Fatalf("expected default LRUMaxEntries=1024, got %d", cfg.LRUMaxEntries)
	}
	if cfg.TTLMaxEntries != 1024 {
		t.Fatalf("expected default TTLMaxEntries=1024, got %d", cfg.TTLMaxEntries)
	}
	if cfg.DefaultTTL != 5*time.Minute {
		t.Fatalf("expected default DefaultTTL=5m, got %v", cfg.DefaultTTL)
	}
	if cfg.WorkloadOps != 50000 || cfg.WorkloadKeys != 4096 {
		t.Fatalf("unexpected workload defaults: ops=%d keys=%d", cfg.WorkloadOps, cfg.WorkloadKeys)
	}
}

func TestLoadOverrides(t *testing.T) {
	Reset()
	t.Setenv("CACHE_LRU_MAX_ENTRIES", "16")
	t.Setenv("CACHE_DEFAULT_TTL", "30s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	if cfg.LRUMaxEntries != 16 {
		t.Fatalf("expected LRUMaxEntries=16, got %d", cfg.LRUMaxEntries)
	}
	if cfg.DefaultTTL != 30*time.Second {
		t.Fatalf("expected DefaultTTL=30s, got %v", cfg.DefaultTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lowercased log level, got %q", cfg.LogLevel)
	}

	Reset()
}

func TestLoadCaches(t *testing.T) {
	Reset()
	first := Load()
	second := Load()
	if first != second {
		t.Fatal("Load() should return the cached config on repeat calls")
	}
	Reset()
}
