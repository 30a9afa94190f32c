package geocode

import "fmt"

// NotFoundError means the place name resolved to no usable feature
type NotFoundError struct {
	PlaceName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no location found for %q", e.PlaceName)
}

func NewNotFoundError(placeName string) *NotFoundError {
	return &NotFoundError{PlaceName: placeName}
}

// MapboxAPIError represents a failed call to the Mapbox geocoding API
type MapboxAPIError struct {
	Message string
	Err     error
}

func (e *MapboxAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Mapbox API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("Mapbox API error: %s", e.Message)
}

func (e *MapboxAPIError) Unwrap() error {
	return e.Err
}

func NewMapboxAPIError(message string, err error) *MapboxAPIError {
	return &MapboxAPIError{
		Message: message,
		Err:     err,
	}
}
