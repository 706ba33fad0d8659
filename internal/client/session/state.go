package session

import "github.com/dmitrijs2005/cakeplanner/internal/client/models"

// State is the authentication state of the client.
type State int

const (
	Anonymous State = iota
	AwaitingSecondFactor
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case AwaitingSecondFactor:
		return "awaiting-2fa"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session. Token and User are either
// both set (Authenticated) or both empty.
type Snapshot struct {
	State State
	Token string
	User  *models.User

	// PendingEmail is the address whose password step succeeded while the
	// client waits for a one-time code.
	PendingEmail string
}

var anonymous = Snapshot{State: Anonymous}

func authenticated(token string, user *models.User) Snapshot {
	return Snapshot{State: Authenticated, Token: token, User: cloneUser(user)}
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.User = cloneUser(s.User)
	return s
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.MustChangePassword != nil {
		v := *u.MustChangePassword
		c.MustChangePassword = &v
	}
	if u.Has2FA != nil {
		v := *u.Has2FA
		c.Has2FA = &v
	}
	return &c
}

// Outcome is the result of a successful credential exchange.
type Outcome int

const (
	// OutcomeAuthenticated means a full session was established.
	OutcomeAuthenticated Outcome = iota
	// OutcomeSecondFactorRequired means the password was accepted and the
	// caller must repeat Login with the same credentials plus a code.
	OutcomeSecondFactorRequired
)

func (o Outcome) String() string {
	if o == OutcomeSecondFactorRequired {
		return "second-factor-required"
	}
	return "authenticated"
}

// LoginResult is what Login reports back to its caller.
type LoginResult struct {
	Outcome Outcome
	User    *models.User
}
