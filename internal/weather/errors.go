package weather

import "fmt"

// OpenWeatherAPIError represents a failed or unusable current-weather lookup
type OpenWeatherAPIError struct {
	Message string
	Err     error
}

func (e *OpenWeatherAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("OpenWeather API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("OpenWeather API error: %s", e.Message)
}

func (e *OpenWeatherAPIError) Unwrap() error {
	return e.Err
}

func NewOpenWeatherAPIError(message string, err error) *OpenWeatherAPIError {
	return &OpenWeatherAPIError{
		Message: message,
		Err:     err,
	}
}
