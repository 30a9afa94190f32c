package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Geocode LRU settings
	GeocodeLRUSize       int
	GeocodeLRUTTLMinutes int

	// Nearest-stop LRU settings. Stop locations change rarely, but the
	// coordinate key is exact so hit rates depend on repeated place names.
	StopLRUSize       int
	StopLRUTTLMinutes int

	EnableLRUCache bool
}

const (
	defaultGeocodeLRUSize       = 1000
	defaultGeocodeLRUTTLMinutes = 24 * 60
	defaultStopLRUSize          = 1000
	defaultStopLRUTTLMinutes    = 60
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		GeocodeLRUSize:       getEnvInt("CACHE_GEOCODE_LRU_SIZE", defaultGeocodeLRUSize),
		GeocodeLRUTTLMinutes: getEnvInt("CACHE_GEOCODE_LRU_TTL_MINUTES", defaultGeocodeLRUTTLMinutes),
		StopLRUSize:          getEnvInt("CACHE_STOP_LRU_SIZE", defaultStopLRUSize),
		StopLRUTTLMinutes:    getEnvInt("CACHE_STOP_LRU_TTL_MINUTES", defaultStopLRUTTLMinutes),
		EnableLRUCache:       getEnvBool("CACHE_ENABLE_LRU", true),
	}

	log.Debug().
		Int("GeocodeLRUSize", config.GeocodeLRUSize).
		Int("GeocodeLRUTTLMinutes", config.GeocodeLRUTTLMinutes).
		Int("StopLRUSize", config.StopLRUSize).
		Int("StopLRUTTLMinutes", config.StopLRUTTLMinutes).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetGeocodeLRUTTL() time.Duration {
	return time.Duration(c.GeocodeLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStopLRUTTL() time.Duration {
	return time.Duration(c.StopLRUTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
