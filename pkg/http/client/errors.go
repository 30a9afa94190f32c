package client

import "fmt"

const maxErrorBody = 200

// StatusError is returned by GetJSON when the upstream answers with a non-2xx status
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

func NewStatusError(service string, statusCode int, body []byte) *StatusError {
	snippet := string(body)
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody] + "..."
	}
	return &StatusError{
		Service:    service,
		StatusCode: statusCode,
		Body:       snippet,
	}
}
