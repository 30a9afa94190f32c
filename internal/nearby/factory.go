package nearby

import (
	"fmt"

	"github.com/mbtanearby/backend-go/internal/cache"
	"github.com/mbtanearby/backend-go/internal/config"
	"github.com/mbtanearby/backend-go/internal/geocode"
	"github.com/mbtanearby/backend-go/internal/transit"
	"github.com/mbtanearby/backend-go/internal/weather"
	"github.com/mbtanearby/backend-go/pkg/http/client"
)

type ServiceFactory interface {
	NewService(cfg *config.Config) (*Service, error)
}

// DefaultServiceFactory wires the Mapbox, MBTA and OpenWeather clients.
// A nil CacheConfig reads cache settings from the environment.
type DefaultServiceFactory struct {
	CacheConfig *config.CacheConfig
}

var _ ServiceFactory = (*DefaultServiceFactory)(nil)

func (f *DefaultServiceFactory) NewService(cfg *config.Config) (*Service, error) {
	cacheCfg := f.CacheConfig
	if cacheCfg == nil {
		cacheCfg = config.GetCacheConfig()
	}

	geocodeCache, err := cache.NewGeocodeCache(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing geocode cache: %w", err)
	}
	stopCache, err := cache.NewStopCache(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing stop cache: %w", err)
	}

	geocoder := geocode.NewClient(client.New(client.Options{
		BaseURL: cfg.MapboxBaseURL,
		Timeout: cfg.HTTPTimeout,
		Service: "mapbox",
	}), cfg.MapboxToken, geocodeCache)

	mbta := transit.NewClient(client.New(client.Options{
		BaseURL: cfg.MBTABaseURL,
		Timeout: cfg.HTTPTimeout,
		Service: "mbta",
	}), cfg.MBTAAPIKey, stopCache)

	openWeather := weather.NewClient(client.New(client.Options{
		BaseURL: cfg.OpenWeatherBaseURL,
		Timeout: cfg.HTTPTimeout,
		Service: "openweather",
	}), cfg.OpenWeatherAPIKey)

	return NewService(geocoder, mbta, mbta, openWeather, cfg.ArrivalLimit), nil
}
