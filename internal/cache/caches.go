package cache

import (
	"github.com/mbtanearby/backend-go/internal/config"
	"github.com/mbtanearby/backend-go/internal/models"
)

type GeocodeCache = LRUCache[models.Coordinate]

// StopCache stores the nearest stop per mode and coordinate. A nil *models.Stop
// is a valid cached value meaning no stop of that mode was found.
type StopCache = LRUCache[*models.Stop]

// NewGeocodeCache returns nil when LRU caching is disabled
func NewGeocodeCache(cfg *config.CacheConfig) (*GeocodeCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	if !cfg.EnableLRUCache {
		return nil, nil
	}
	return NewLRUCache[models.Coordinate]("geocode", cfg.GeocodeLRUSize, cfg.GetGeocodeLRUTTL())
}

// NewStopCache returns nil when LRU caching is disabled
func NewStopCache(cfg *config.CacheConfig) (*StopCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	if !cfg.EnableLRUCache {
		return nil, nil
	}
	return NewLRUCache[*models.Stop]("stops", cfg.StopLRUSize, cfg.GetStopLRUTTL())
}
