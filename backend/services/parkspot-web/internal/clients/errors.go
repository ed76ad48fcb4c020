package clients

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned for any 401 response.
	ErrUnauthorized = errors.New("clients: unauthorized")
	// ErrUnavailable wraps transport failures.
	ErrUnavailable = errors.New("clients: api unavailable")
)

// StatusError is a non-success HTTP status other than 401.
type StatusError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("clients: %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("clients: %s: status %d", e.Endpoint, e.Status)
}

// NotFound reports a 404.
func (e *StatusError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// AppError is an application-level failure carried inside a 2xx response.
type AppError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("clients: %s: response code %d: %s", e.Endpoint, e.Code, e.Message)
}

// UserMessage picks the message to show for err, falling back to fallback.
// Backend messages from StatusError and AppError are passed through.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return fallback
}
