package api

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPlaceNameLength = 2
	MaxPlaceNameLength = 100

	msgPlaceNameRequired = "Please enter a place name or address."
	msgPlaceNameLength   = "Location must be between 2 and 100 characters."
	msgPlaceNameChars    = "Please enter a valid location (letters, numbers, spaces, and basic punctuation only)."
)

var placeNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\.,#-]+$`)

// ValidationError carries a message that is safe to show to the caller
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ValidatePlaceName trims raw and checks it the way the search form does:
// required, then length, then allowed characters.
func ValidatePlaceName(raw string) (string, error) {
	placeName := strings.TrimSpace(raw)
	if placeName == "" {
		return "", NewValidationError(msgPlaceNameRequired)
	}

	if n := utf8.RuneCountInString(placeName); n < MinPlaceNameLength || n > MaxPlaceNameLength {
		return "", NewValidationError(msgPlaceNameLength)
	}

	if !placeNamePattern.MatchString(placeName) {
		return "", NewValidationError(msgPlaceNameChars)
	}

	return placeName, nil
}
