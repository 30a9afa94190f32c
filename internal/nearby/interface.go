package nearby

import (
	"context"

	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/mbtanearby/backend-go/internal/transit"
)

type Geocoder interface {
	Geocode(ctx context.Context, placeName string) (models.Coordinate, error)
}

type StopLocator interface {
	FindNearestStops(ctx context.Context, origin models.Coordinate) transit.NearestStops
}

type ArrivalFetcher interface {
	GetArrivals(ctx context.Context, stopID string, limit int) ([]models.Arrival, error)
}

type WeatherFetcher interface {
	GetCurrentWeather(ctx context.Context, location models.Coordinate) (*models.WeatherSnapshot, error)
}

// Finder is what the inbound handlers depend on
type Finder interface {
	FindStopsNear(ctx context.Context, placeName string) (*models.Result, error)
}
