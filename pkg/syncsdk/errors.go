package syncsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated indicates the session token is missing, invalid or
// expired. The caller must sign in again.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrUserNotFound indicates the session is valid but the profile record is
// missing. The caller should re-run Sync rather than sign in again.
var ErrUserNotFound = errors.New("user record not found")

// APIError represents a non-2xx response from the profile API.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Is maps the API's status codes onto the package sentinels, so callers can
// use errors.Is against ErrUnauthenticated and ErrUserNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrUserNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// parseErrorResponse converts a non-2xx response body into an APIError.
// Returns nil for success statuses.
func parseErrorResponse(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var payload struct {
		Error string `json:"error"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	return &APIError{Status: status, Message: message}
}
