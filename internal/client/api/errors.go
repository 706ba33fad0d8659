package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// StatusError is a non-2xx reply that has no dedicated sentinel.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
}

// statusError maps an HTTP status and the server's message to an error.
func statusError(code int, msg string) error {
	switch code {
	case http.StatusUnauthorized:
		return withMessage(ErrUnauthorized, msg)
	case http.StatusForbidden:
		return withMessage(ErrForbidden, msg)
	case http.StatusNotFound:
		return withMessage(ErrNotFound, msg)
	default:
		return &StatusError{Code: code, Message: msg}
	}
}

func withMessage(err error, msg string) error {
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}

// CheckResponse returns nil for a 2xx reply and the mapped error otherwise.
// On error it drains and closes resp.Body.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	defer resp.Body.Close()
	return statusError(resp.StatusCode, readErrorMessage(resp.Body))
}
