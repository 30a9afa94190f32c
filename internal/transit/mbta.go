package transit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mbtanearby/backend-go/internal/cache"
	"github.com/mbtanearby/backend-go/internal/geo"
	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/mbtanearby/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Client struct {
	httpClient client.Interface
	apiKey     string
	stopCache  *cache.StopCache
}

// NewClient creates an MBTA v3 client. stopCache may be nil.
func NewClient(httpClient client.Interface, apiKey string, stopCache *cache.StopCache) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		stopCache:  stopCache,
	}
}

type stopsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name               string   `json:"name"`
			Latitude           *float64 `json:"latitude"`
			Longitude          *float64 `json:"longitude"`
			WheelchairBoarding *int     `json:"wheelchair_boarding"`
		} `json:"attributes"`
	} `json:"data"`
}

// FindNearestStop returns the closest stop served by the mode's route types,
// or nil when the API has none. Ordering is done server side; the distance is
// recomputed here from the stop's coordinates.
func (c *Client) FindNearestStop(ctx context.Context, origin models.Coordinate, mode models.Mode) (*models.Stop, error) {
	routeTypes := mode.RouteTypes()
	if routeTypes == "" {
		return nil, fmt.Errorf("unsupported mode: %s", mode)
	}

	key := string(mode) + ":" + origin.String()
	if c.stopCache != nil {
		if cached, ok := c.stopCache.Get(key); ok {
			log.Debug().Str("mode", string(mode)).Msg("Cache HIT for nearest stop")
			return copyStop(cached), nil
		}
	}

	params := c.baseParams()
	params.Set("filter[latitude]", origin.LatitudeString())
	params.Set("filter[longitude]", origin.LongitudeString())
	params.Set("filter[route_type]", routeTypes)
	params.Set("sort", "distance")
	params.Set("page[limit]", "1")

	var resp stopsResponse
	if err := c.httpClient.GetJSON(ctx, "/stops?"+params.Encode(), &resp); err != nil {
		return nil, NewMbtaAPIError(fmt.Sprintf("finding nearest %s stop", mode), err)
	}

	var stop *models.Stop
	if len(resp.Data) > 0 {
		s := resp.Data[0]
		if s.Attributes.Latitude == nil || s.Attributes.Longitude == nil {
			return nil, NewMbtaAPIError(fmt.Sprintf("stop %s has no coordinates", s.ID), nil)
		}
		location := models.Coordinate{Latitude: *s.Attributes.Latitude, Longitude: *s.Attributes.Longitude}
		miles := geo.Distance(origin, location)
		stop = &models.Stop{
			ID:                   s.ID,
			Name:                 s.Attributes.Name,
			Mode:                 mode,
			WheelchairAccessible: isWheelchairAccessible(s.Attributes.WheelchairBoarding),
			Distance:             models.FormatMiles(miles),
			DistanceMiles:        miles,
			Latitude:             location.Latitude,
			Longitude:            location.Longitude,
		}
		log.Debug().
			Str("mode", string(mode)).
			Str("stop_id", stop.ID).
			Str("distance", stop.Distance).
			Msg("Found nearest stop")
	} else {
		log.Debug().Str("mode", string(mode)).Msg("No stop found near coordinates")
	}

	if c.stopCache != nil {
		c.stopCache.Add(key, copyStop(stop))
	}
	return stop, nil
}

// NearestStops holds one lookup per mode. A mode's error never affects the other mode.
type NearestStops struct {
	Subway    *models.Stop
	Bus       *models.Stop
	SubwayErr error
	BusErr    error
}

// FindNearestStops looks up the nearest subway and bus stops concurrently
func (c *Client) FindNearestStops(ctx context.Context, origin models.Coordinate) NearestStops {
	var result NearestStops
	var g errgroup.Group

	g.Go(func() error {
		result.Subway, result.SubwayErr = c.FindNearestStop(ctx, origin, models.ModeSubway)
		return nil
	})
	g.Go(func() error {
		result.Bus, result.BusErr = c.FindNearestStop(ctx, origin, models.ModeBus)
		return nil
	})
	_ = g.Wait()

	if result.SubwayErr != nil {
		log.Warn().Err(result.SubwayErr).Str("location", origin.String()).Msg("Subway stop lookup failed")
	}
	if result.BusErr != nil {
		log.Warn().Err(result.BusErr).Str("location", origin.String()).Msg("Bus stop lookup failed")
	}
	return result
}

// Stop returns the stop and error recorded for mode
func (n NearestStops) Stop(mode models.Mode) (*models.Stop, error) {
	switch mode {
	case models.ModeSubway:
		return n.Subway, n.SubwayErr
	case models.ModeBus:
		return n.Bus, n.BusErr
	}
	return nil, fmt.Errorf("unsupported mode: %s", mode)
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	// The MBTA API accepts anonymous requests at a lower rate limit
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	return params
}

// isWheelchairAccessible maps the GTFS wheelchair_boarding code; only 1 means accessible
func isWheelchairAccessible(code *int) bool {
	return code != nil && *code == models.WheelchairBoardingAccessible
}

func copyStop(s *models.Stop) *models.Stop {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Arrivals != nil {
		cp.Arrivals = append([]models.Arrival(nil), s.Arrivals...)
	}
	return &cp
}

func limitParam(limit int) string {
	if limit <= 0 {
		limit = DefaultArrivalLimit
	}
	return strconv.Itoa(limit)
}
