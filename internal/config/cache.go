package config

import "time"

// CacheConfig defines settings for the availability response cache.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// The cache only ever applies to GET responses; availability counts go
// stale within seconds, so the TTL defaults low.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled: envBool("CACHE_ENABLED", true),
        TTL:     envDur("CACHE_TTL", 5*time.Second),
        Prefix:  envStr("CACHE_PREFIX", "cache"),
    }
}
