package config

import (
	"fmt"

	"github.com/gin-contrib/cache/persistence"
)

// NewCacheStore picks the response cache backend. A nil store means caching is off.
func NewCacheStore(cfg *Config) (persistence.CacheStore, error) {
	ttl := cfg.CacheFallbackTTL
	switch cfg.CacheBackend {
	case "", "memory":
		return persistence.NewInMemoryStore(ttl), nil
	case "redis":
		return persistence.NewRedisCache(cfg.RedisHost, cfg.RedisPassword, ttl), nil
	case "memcached":
		return persistence.NewMemcachedStore(cfg.MemcachedHosts, ttl), nil
	case "none", "off", "disabled":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
}
