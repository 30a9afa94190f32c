package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/mbtanearby/backend-go/internal/api"
	"github.com/mbtanearby/backend-go/internal/nearby"
	"github.com/rs/zerolog/log"
)

// PlaceNameParam is the query string and form field carrying the place to look up
const PlaceNameParam = "place_name"

type NearbyHandler struct {
	finder nearby.Finder
}

func NewNearbyHandler(finder nearby.Finder) *NearbyHandler {
	return &NearbyHandler{
		finder: finder,
	}
}

func (h *NearbyHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	raw, err := placeNameFromRequest(request)
	if err != nil {
		return api.Error("Invalid request body", http.StatusBadRequest)
	}

	placeName, err := api.ValidatePlaceName(raw)
	if err != nil {
		status, message := api.ErrorStatus(err)
		return api.Error(message, status)
	}

	result, err := h.finder.FindStopsNear(ctx, placeName)
	if err != nil {
		status, message := api.ErrorStatus(err)
		log.Error().Err(err).Str("place_name", placeName).Int("status", status).Msg("Lookup failed")
		return api.Error(message, status)
	}

	return api.Success(api.NewNearbyResponse(result))
}

// placeNameFromRequest reads the place name from a form-encoded POST body,
// falling back to the query string.
func placeNameFromRequest(request events.APIGatewayProxyRequest) (string, error) {
	if request.HTTPMethod == http.MethodPost && request.Body != "" {
		body := request.Body
		if request.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return "", err
			}
			body = string(decoded)
		}
		if isFormEncoded(request.Headers) {
			form, err := url.ParseQuery(body)
			if err != nil {
				return "", err
			}
			if form.Has(PlaceNameParam) {
				return form.Get(PlaceNameParam), nil
			}
		}
	}
	return request.QueryStringParameters[PlaceNameParam], nil
}

func isFormEncoded(headers map[string]string) bool {
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return strings.HasPrefix(strings.ToLower(v), "application/x-www-form-urlencoded")
		}
	}
	// API Gateway drops the header for some clients; assume a form post
	return true
}
