package transit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mbtanearby/backend-go/internal/cache"
	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/mbtanearby/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fenway = models.Coordinate{Latitude: 42.345, Longitude: -71.098}

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc, stopCache *cache.StopCache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := client.New(client.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Service: "mbta",
	})
	return NewClient(httpClient, apiKey, stopCache)
}

func stopBody(wheelchair string) string {
	return `{"data":[{"id":"place-kencl","type":"stop","attributes":{
		"name":"Kenmore","latitude":42.349341,"longitude":-71.098,
		"wheelchair_boarding":` + wheelchair + `}}]}`
}

func TestClient_FindNearestStopRequest(t *testing.T) {
	tests := []struct {
		mode           models.Mode
		wantRouteTypes string
	}{
		{mode: models.ModeSubway, wantRouteTypes: "0,1"},
		{mode: models.ModeBus, wantRouteTypes: "3"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var query url.Values
			var path string
			c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				query = r.URL.Query()
				_, _ = w.Write([]byte(`{"data":[]}`))
			}, nil)

			_, err := c.FindNearestStop(context.Background(), fenway, tt.mode)
			require.NoError(t, err)

			assert.Equal(t, "/stops", path)
			assert.Equal(t, "secret", query.Get("api_key"))
			assert.Equal(t, "42.345000", query.Get("filter[latitude]"))
			assert.Equal(t, "-71.098000", query.Get("filter[longitude]"))
			assert.Equal(t, tt.wantRouteTypes, query.Get("filter[route_type]"))
			assert.Equal(t, "distance", query.Get("sort"))
			assert.Equal(t, "1", query.Get("page[limit]"))
		})
	}
}

func TestClient_FindNearestStopOmitsEmptyAPIKey(t *testing.T) {
	var query url.Values
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, nil)

	_, err := c.FindNearestStop(context.Background(), fenway, models.ModeBus)
	require.NoError(t, err)
	_, present := query["api_key"]
	assert.False(t, present)
}

func TestClient_FindNearestStop(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantAccessible bool
	}{
		{name: "accessible", body: stopBody("1"), wantAccessible: true},
		{name: "no information", body: stopBody("0")},
		{name: "inaccessible", body: stopBody("2")},
		{name: "null", body: stopBody("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			stop, err := c.FindNearestStop(context.Background(), fenway, models.ModeSubway)
			require.NoError(t, err)
			require.NotNil(t, stop)

			assert.Equal(t, "place-kencl", stop.ID)
			assert.Equal(t, "Kenmore", stop.Name)
			assert.Equal(t, models.ModeSubway, stop.Mode)
			assert.Equal(t, tt.wantAccessible, stop.WheelchairAccessible)
			assert.Equal(t, "0.30 miles", stop.Distance)
			assert.InDelta(t, 0.2999, stop.DistanceMiles, 0.001)
			assert.Nil(t, stop.Arrivals)
		})
	}
}

func TestClient_FindNearestStopEmpty(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, nil)

	stop, err := c.FindNearestStop(context.Background(), fenway, models.ModeBus)
	require.NoError(t, err)
	assert.Nil(t, stop)
}

func TestClient_FindNearestStopErrors(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"errors":[{"status":"429"}]}`))
	}, nil)

	stop, err := c.FindNearestStop(context.Background(), fenway, models.ModeSubway)
	assert.Nil(t, stop)

	var apiErr *MbtaAPIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)

	_, err = c.FindNearestStop(context.Background(), fenway, models.Mode("ferry"))
	assert.EqualError(t, err, "unsupported mode: ferry")
}

func TestClient_FindNearestStopMissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "null coordinates",
			body: `{"data":[{"id":"x","attributes":{"name":"Ghost","latitude":null,"longitude":null,"wheelchair_boarding":1}}]}`,
		},
		{
			name: "missing longitude",
			body: `{"data":[{"id":"x","attributes":{"name":"Ghost","latitude":42.35,"wheelchair_boarding":1}}]}`,
		},
		{
			name: "no attributes",
			body: `{"data":[{"id":"x"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stopCache, err := cache.NewLRUCache[*models.Stop]("stops", 10, time.Hour)
			require.NoError(t, err)
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, stopCache)

			stop, err := c.FindNearestStop(context.Background(), fenway, models.ModeSubway)
			assert.Nil(t, stop)
			var apiErr *MbtaAPIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Contains(t, err.Error(), "no coordinates")
			assert.Equal(t, 0, stopCache.Len())

			nearest := c.FindNearestStops(context.Background(), fenway)
			assert.Nil(t, nearest.Subway)
			assert.Error(t, nearest.SubwayErr)
		})
	}
}

func TestClient_FindNearestStopUsesCache(t *testing.T) {
	stopCache, err := cache.NewLRUCache[*models.Stop]("stops", 10, time.Hour)
	require.NoError(t, err)

	var calls atomic.Int32
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("filter[route_type]") == "3" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_, _ = w.Write([]byte(stopBody("1")))
	}, stopCache)

	first, err := c.FindNearestStop(context.Background(), fenway, models.ModeSubway)
	require.NoError(t, err)
	first.Arrivals = []models.Arrival{{Route: "Green-B"}}

	second, err := c.FindNearestStop(context.Background(), fenway, models.ModeSubway)
	require.NoError(t, err)
	assert.Equal(t, "place-kencl", second.ID)
	assert.Nil(t, second.Arrivals, "cached stop must not share caller mutations")

	// An empty answer is cached too
	for i := 0; i < 2; i++ {
		bus, err := c.FindNearestStop(context.Background(), fenway, models.ModeBus)
		require.NoError(t, err)
		assert.Nil(t, bus)
	}

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, stopCache.Len())
}

func TestClient_FindNearestStopDoesNotCacheFailures(t *testing.T) {
	stopCache, err := cache.NewLRUCache[*models.Stop]("stops", 10, time.Hour)
	require.NoError(t, err)

	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, stopCache)

	_, err = c.FindNearestStop(context.Background(), fenway, models.ModeSubway)
	require.Error(t, err)
	assert.Equal(t, 0, stopCache.Len())
}

func TestIsWheelchairAccessible(t *testing.T) {
	code := func(v int) *int { return &v }

	assert.True(t, isWheelchairAccessible(code(1)))
	assert.False(t, isWheelchairAccessible(code(0)))
	assert.False(t, isWheelchairAccessible(code(2)))
	assert.False(t, isWheelchairAccessible(nil))
}

func TestMbtaAPIError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewMbtaAPIError("finding nearest bus stop", inner)

	assert.Equal(t, "MBTA API error: finding nearest bus stop: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "MBTA API error: bad", NewMbtaAPIError("bad", nil).Error())
}

func TestClient_FindNearestStopsIndependentModes(t *testing.T) {
	tests := []struct {
		name       string
		subway     func(w http.ResponseWriter)
		bus        func(w http.ResponseWriter)
		wantSubway bool
		wantBus    bool
		subwayErr  bool
		busErr     bool
	}{
		{
			name:       "both found",
			subway:     func(w http.ResponseWriter) { _, _ = w.Write([]byte(stopBody("1"))) },
			bus:        func(w http.ResponseWriter) { _, _ = w.Write([]byte(stopBody("0"))) },
			wantSubway: true,
			wantBus:    true,
		},
		{
			name:       "bus fails",
			subway:     func(w http.ResponseWriter) { _, _ = w.Write([]byte(stopBody("1"))) },
			bus:        func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) },
			wantSubway: true,
			busErr:     true,
		},
		{
			name:      "subway fails and bus empty",
			subway:    func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
			bus:       func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{"data":[]}`)) },
			subwayErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("filter[route_type]") == "3" {
					tt.bus(w)
					return
				}
				tt.subway(w)
			}, nil)

			got := c.FindNearestStops(context.Background(), fenway)

			assert.Equal(t, tt.wantSubway, got.Subway != nil)
			assert.Equal(t, tt.wantBus, got.Bus != nil)
			assert.Equal(t, tt.subwayErr, got.SubwayErr != nil)
			assert.Equal(t, tt.busErr, got.BusErr != nil)

			stop, err := got.Stop(models.ModeSubway)
			assert.Equal(t, got.Subway, stop)
			assert.Equal(t, got.SubwayErr, err)
			if got.Bus != nil {
				assert.Equal(t, models.ModeBus, got.Bus.Mode)
			}
		})
	}
}
