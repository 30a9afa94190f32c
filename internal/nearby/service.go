// Package nearby combines geocoding, stop lookup, arrival predictions and
// weather into a single Result for a place name.
package nearby

import (
	"context"
	"fmt"

	"github.com/mbtanearby/backend-go/internal/metrics"
	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	Geocoder     Geocoder
	Stops        StopLocator
	Arrivals     ArrivalFetcher
	Weather      WeatherFetcher
	ArrivalLimit int
}

var _ Finder = (*Service)(nil)

func NewService(geocoder Geocoder, stops StopLocator, arrivals ArrivalFetcher, weather WeatherFetcher, arrivalLimit int) *Service {
	return &Service{
		Geocoder:     geocoder,
		Stops:        stops,
		Arrivals:     arrivals,
		Weather:      weather,
		ArrivalLimit: arrivalLimit,
	}
}

// FindStopsNear geocodes placeName and returns the nearest subway and bus
// stops with their arrivals, plus the current weather. Only a geocoding
// failure is returned as an error; every other failure leaves its field
// absent and is reported in Result.Status.
func (s *Service) FindStopsNear(ctx context.Context, placeName string) (*models.Result, error) {
	location, err := s.Geocoder.Geocode(ctx, placeName)
	if err != nil {
		metrics.LookupResults.WithLabelValues("location", string(models.FetchFailed)).Inc()
		return nil, fmt.Errorf("geocoding %q: %w", placeName, err)
	}
	metrics.LookupResults.WithLabelValues("location", string(models.FetchOK)).Inc()

	result := &models.Result{
		PlaceName: placeName,
		Location:  location,
	}

	// Each branch writes only its own fields of result
	var g errgroup.Group
	g.Go(func() error {
		s.findStops(ctx, location, result)
		return nil
	})
	g.Go(func() error {
		result.Weather, result.Status.Weather = s.fetchWeather(ctx, location)
		return nil
	})
	_ = g.Wait()

	metrics.LookupResults.WithLabelValues("subway", string(result.Status.Subway)).Inc()
	metrics.LookupResults.WithLabelValues("bus", string(result.Status.Bus)).Inc()
	metrics.LookupResults.WithLabelValues("weather", string(result.Status.Weather)).Inc()

	log.Info().
		Str("place_name", placeName).
		Str("location", location.String()).
		Str("subway", string(result.Status.Subway)).
		Str("bus", string(result.Status.Bus)).
		Str("weather", string(result.Status.Weather)).
		Msg("Lookup complete")

	return result, nil
}

func (s *Service) findStops(ctx context.Context, location models.Coordinate, result *models.Result) {
	nearest := s.Stops.FindNearestStops(ctx, location)

	var g errgroup.Group
	for _, mode := range models.Modes {
		stop, err := nearest.Stop(mode)
		status := classify(stop != nil, err)

		switch mode {
		case models.ModeSubway:
			result.Subway, result.Status.Subway = stop, status
		case models.ModeBus:
			result.Bus, result.Status.Bus = stop, status
		}

		if stop != nil {
			g.Go(func() error {
				s.attachArrivals(ctx, stop)
				return nil
			})
		}
	}
	_ = g.Wait()
}

// attachArrivals fills stop.Arrivals. A failed fetch leaves the stop in place
// with no arrivals and ArrivalsStatus set to failed.
func (s *Service) attachArrivals(ctx context.Context, stop *models.Stop) {
	arrivals, err := s.Arrivals.GetArrivals(ctx, stop.ID, s.ArrivalLimit)
	stop.ArrivalsStatus = classify(len(arrivals) > 0, err)
	if err != nil {
		log.Warn().Err(err).Str("stop_id", stop.ID).Msg("Arrival lookup failed")
		arrivals = nil
	}
	if arrivals == nil {
		arrivals = []models.Arrival{}
	}
	stop.Arrivals = arrivals
}

func (s *Service) fetchWeather(ctx context.Context, location models.Coordinate) (*models.WeatherSnapshot, models.FetchStatus) {
	snapshot, err := s.Weather.GetCurrentWeather(ctx, location)
	if err != nil {
		log.Warn().Err(err).Str("location", location.String()).Msg("Weather lookup failed")
		return nil, models.FetchFailed
	}
	return snapshot, classify(snapshot != nil, nil)
}

func classify(found bool, err error) models.FetchStatus {
	switch {
	case err != nil:
		return models.FetchFailed
	case !found:
		return models.FetchEmpty
	default:
		return models.FetchOK
	}
}
