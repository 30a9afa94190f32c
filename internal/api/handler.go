package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/mbtanearby/backend-go/internal/geocode"
	"github.com/mbtanearby/backend-go/internal/models"
)

// GenericErrorMessage is the only failure text shown once input has passed validation
const GenericErrorMessage = "Unable to find transit information for that location."

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type NearbyResponse struct {
	APIResponse
	*models.Result
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

type InfoResponse struct {
	APIResponse
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

func NewNearbyResponse(result *models.Result) *NearbyResponse {
	return &NearbyResponse{
		APIResponse: APIResponse{ResponseType: "nearby"},
		Result:      result,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

func NewInfoResponse(service string, endpoints []string) *InfoResponse {
	return &InfoResponse{
		APIResponse: APIResponse{ResponseType: "info"},
		Service:     service,
		Endpoints:   endpoints,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    responseHeaders(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    responseHeaders(),
		Body:       string(body),
	}, nil
}

func responseHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// ErrorStatus maps a lookup or validation error to the HTTP status and the
// message shown to the caller. Upstream detail never reaches the message.
func ErrorStatus(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var notFound *geocode.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, GenericErrorMessage
	}

	var mapboxErr *geocode.MapboxAPIError
	if errors.As(err, &mapboxErr) {
		return http.StatusBadGateway, GenericErrorMessage
	}

	return http.StatusInternalServerError, GenericErrorMessage
}
