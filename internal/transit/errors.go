package transit

import "fmt"

// MbtaAPIError represents an error from the MBTA v3 API
type MbtaAPIError struct {
	Message string
	Err     error
}

func (e *MbtaAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("MBTA API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("MBTA API error: %s", e.Message)
}

func (e *MbtaAPIError) Unwrap() error {
	return e.Err
}

// NewMbtaAPIError creates a new MBTA API error
func NewMbtaAPIError(message string, err error) *MbtaAPIError {
	return &MbtaAPIError{
		Message: message,
		Err:     err,
	}
}
