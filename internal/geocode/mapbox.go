package geocode

import (
	"context"
	"net/url"
	"strings"

	"github.com/mbtanearby/backend-go/internal/cache"
	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/mbtanearby/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// featureTypes restricts matches to points of interest and street addresses
const featureTypes = "poi,address"

type Client struct {
	httpClient client.Interface
	token      string
	cache      *cache.GeocodeCache
}

// NewClient creates a Mapbox geocoder. geocodeCache may be nil.
func NewClient(httpClient client.Interface, token string, geocodeCache *cache.GeocodeCache) *Client {
	return &Client{
		httpClient: httpClient,
		token:      token,
		cache:      geocodeCache,
	}
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  struct {
			// GeoJSON order: [longitude, latitude]
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a free-text place name to the coordinate of the first
// matching feature, rounded to six decimals.
func (c *Client) Geocode(ctx context.Context, placeName string) (models.Coordinate, error) {
	key := cacheKey(placeName)
	if c.cache != nil {
		if coord, ok := c.cache.Get(key); ok {
			log.Debug().Str("place", placeName).Msg("Cache HIT for geocode")
			return coord, nil
		}
	}

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("types", featureTypes)
	path := "/" + url.PathEscape(placeName) + ".json?" + params.Encode()

	var resp mapboxResponse
	if err := c.httpClient.GetJSON(ctx, path, &resp); err != nil {
		return models.Coordinate{}, NewMapboxAPIError("geocoding place", err)
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return models.Coordinate{}, NewNotFoundError(placeName)
	}

	feature := resp.Features[0]
	coord := models.NewCoordinate(feature.Geometry.Coordinates[1], feature.Geometry.Coordinates[0])
	if err := coord.Validate(); err != nil {
		return models.Coordinate{}, NewNotFoundError(placeName)
	}

	log.Debug().
		Str("place", placeName).
		Str("match", feature.PlaceName).
		Str("coordinate", coord.String()).
		Msg("Geocoded place")

	if c.cache != nil {
		c.cache.Add(key, coord)
	}
	return coord, nil
}

func cacheKey(placeName string) string {
	return strings.ToLower(strings.Join(strings.Fields(placeName), " "))
}
