// Package guard decides whether the current session may enter a surface of
// the application and, if not, where to send the user instead.
package guard

import "github.com/dmitrijs2005/cakeplanner/internal/client/models"

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// View is the part of the session guards read.
type View interface {
	IsAuthenticated() bool
	CurrentUser() *models.User
}

// Authenticated lets any logged-in user through.
func Authenticated(v View) Decision {
	if v.IsAuthenticated() {
		return Allow
	}
	return RedirectLogin
}

// Admin lets global admins and group admins through. Logged-in users
// without either role are sent home, everyone else to login.
func Admin(v View) Decision {
	if !v.IsAuthenticated() {
		return RedirectLogin
	}
	u := v.CurrentUser()
	if u == nil {
		return RedirectLogin
	}
	if u.CanAdminister() {
		return Allow
	}
	return RedirectHome
}

// Panel guards the system administration surface: global admins only.
// Anyone else is sent to login, which is the panel's only other page.
func Panel(v View) Decision {
	if !v.IsAuthenticated() {
		return RedirectLogin
	}
	if u := v.CurrentUser(); u != nil && u.IsAdmin {
		return Allow
	}
	return RedirectLogin
}
