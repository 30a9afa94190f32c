package weather

import (
	"context"
	"math"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/mbtanearby/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

type Client struct {
	httpClient client.Interface
	apiKey     string
}

func NewClient(httpClient client.Interface, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

type currentWeatherResponse struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// GetCurrentWeather fetches current conditions in imperial units
func (c *Client) GetCurrentWeather(ctx context.Context, location models.Coordinate) (*models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("lat", location.LatitudeString())
	params.Set("lon", location.LongitudeString())
	params.Set("appid", c.apiKey)
	params.Set("units", "imperial")

	var resp currentWeatherResponse
	if err := c.httpClient.GetJSON(ctx, "?"+params.Encode(), &resp); err != nil {
		return nil, NewOpenWeatherAPIError("fetching current weather", err)
	}
	if resp.Main == nil || resp.Main.Temp == nil || resp.Main.FeelsLike == nil || resp.Main.Humidity == nil {
		return nil, NewOpenWeatherAPIError("response is missing main readings", nil)
	}
	if resp.Wind == nil || resp.Wind.Speed == nil {
		return nil, NewOpenWeatherAPIError("response is missing wind speed", nil)
	}
	if len(resp.Weather) == 0 {
		return nil, NewOpenWeatherAPIError("response has no weather conditions", nil)
	}

	snapshot := &models.WeatherSnapshot{
		Temperature: roundHalfEven(*resp.Main.Temp),
		FeelsLike:   roundHalfEven(*resp.Main.FeelsLike),
		Description: capitalize(resp.Weather[0].Description),
		Humidity:    roundHalfEven(*resp.Main.Humidity),
		WindSpeed:   roundHalfEven(*resp.Wind.Speed),
		Icon:        resp.Weather[0].Icon,
	}

	log.Debug().
		Str("location", location.String()).
		Int("temperature", snapshot.Temperature).
		Str("description", snapshot.Description).
		Msg("Fetched current weather")

	return snapshot, nil
}

// roundHalfEven rounds ties to the even neighbour, so 72.5 becomes 72
func roundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
