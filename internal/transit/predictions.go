package transit

import (
	"context"
	"fmt"
	"time"

	"github.com/mbtanearby/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	DefaultArrivalLimit = 5
	// arrivalTimeLayout is a 12-hour clock, e.g. "03:04 PM"
	arrivalTimeLayout = "03:04 PM"
)

type predictionsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			ArrivalTime *string `json:"arrival_time"`
			Status      *string `json:"status"`
		} `json:"attributes"`
		Relationships struct {
			Route struct {
				Data *struct {
					ID string `json:"id"`
				} `json:"data"`
			} `json:"route"`
		} `json:"relationships"`
	} `json:"data"`
}

// GetArrivals returns upcoming arrivals at a stop, soonest first. Predictions
// without an arrival time (e.g. departures from the first stop of a trip) are
// skipped, so the result may be shorter than limit.
func (c *Client) GetArrivals(ctx context.Context, stopID string, limit int) ([]models.Arrival, error) {
	params := c.baseParams()
	params.Set("filter[stop]", stopID)
	params.Set("include", "trip,route")
	params.Set("sort", "arrival_time")
	params.Set("page[limit]", limitParam(limit))

	var resp predictionsResponse
	if err := c.httpClient.GetJSON(ctx, "/predictions?"+params.Encode(), &resp); err != nil {
		return nil, NewMbtaAPIError(fmt.Sprintf("fetching predictions for stop %s", stopID), err)
	}

	arrivals := make([]models.Arrival, 0, len(resp.Data))
	for _, p := range resp.Data {
		if p.Attributes.ArrivalTime == nil || *p.Attributes.ArrivalTime == "" {
			continue
		}
		if p.Relationships.Route.Data == nil {
			log.Debug().Str("prediction_id", p.ID).Msg("Skipping prediction without route")
			continue
		}

		arrival, err := parseArrivalTime(*p.Attributes.ArrivalTime)
		if err != nil {
			return nil, NewMbtaAPIError(fmt.Sprintf("parsing prediction %s", p.ID), err)
		}

		status := models.DefaultArrivalStatus
		if p.Attributes.Status != nil && *p.Attributes.Status != "" {
			status = *p.Attributes.Status
		}

		arrivals = append(arrivals, models.Arrival{
			Route:       p.Relationships.Route.Data.ID,
			ArrivalTime: arrival.Format(arrivalTimeLayout),
			Status:      status,
		})
	}

	log.Debug().Str("stop_id", stopID).Int("arrivals", len(arrivals)).Msg("Fetched predictions")
	return arrivals, nil
}

// parseArrivalTime keeps the offset the API sent, which is the agency's local time
func parseArrivalTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing arrival time %s: %w", value, err)
	}
	return t, nil
}
