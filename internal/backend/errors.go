package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Error is a backend-rejected call. Message is the backend's own message
// field, surfaced verbatim when present; callers substitute a generic
// fallback when it is empty.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: %d", e.Status)
}

func (e *Error) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// errorFromResponse picks the message field out of whatever error shape the
// backend returned. gjson tolerates non-object and empty bodies.
func errorFromResponse(status int, body []byte) *Error {
	return &Error{Status: status, Message: gjson.GetBytes(body, "message").String()}
}

// IsUnauthorized reports whether err is a 401 from the backend. The web layer
// reacts by purging the session and redirecting to the login page.
func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Unauthorized()
}

// UserMessage returns the backend's message for err, or fallback when the
// error carries none (network failures, decode errors, empty bodies).
func UserMessage(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}
