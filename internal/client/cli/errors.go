package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/notify"
)

var (
	errCancelled        = errors.New("cancelled")
	errPasswordMismatch = errors.New("passwords do not match")
	errStarsNotNumber   = errors.New("stars must be a number from 1 to 5")
)

// describe renders err for the terminal.
func (a *App) describe(err error) string {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, api.ErrUnauthorized):
		return "not authorized; your session may have expired, log in again"
	case errors.Is(err, api.ErrForbidden):
		return "access denied"
	case errors.Is(err, api.ErrNotFound):
		return "not found"
	case errors.Is(err, api.ErrUnavailable):
		return "server unreachable, check the server address (-a)"
	case errors.Is(err, notify.ErrNoToken):
		return "log in to receive notifications"
	case errors.Is(err, context.Canceled), errors.Is(err, errCancelled):
		return "cancelled"
	default:
		return err.Error()
	}
}

// loginMessage mirrors the login page: wrong credentials, inactive account
// or a generic server problem.
func loginMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Wrong email or password."
	case errors.Is(err, api.ErrForbidden):
		return "Your account is inactive. Contact an administrator."
	case errors.Is(err, api.ErrUnavailable):
		return "Server unreachable. Try again later."
	default:
		return "Login failed due to a server error."
	}
}
