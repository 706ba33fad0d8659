// Package session owns the client's authentication state: who is logged in,
// with which token. It is the single writer of that state; everyone else
// reads it through snapshots.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	sessionrepo "github.com/dmitrijs2005/cakeplanner/internal/client/repositories/session"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
	"github.com/dmitrijs2005/cakeplanner/internal/observable"
)

var errCorruptSession = errors.New("corrupt persisted session")

// Manager mediates login and logout and persists the session.
//
// Mutations (Login, Logout, Restore, CancelSecondFactor) are serialised;
// reads never block on network I/O and always see a complete snapshot.
type Manager struct {
	mu    sync.Mutex
	auth  api.AuthAPI
	repo  sessionrepo.Repository
	state *observable.Value[Snapshot]
	log   logging.Logger
}

// NewManager builds a Manager in the Anonymous state. Call Restore to pick
// up a persisted session.
func NewManager(auth api.AuthAPI, repo sessionrepo.Repository, log logging.Logger) *Manager {
	return &Manager{
		auth:  auth,
		repo:  repo,
		state: observable.NewCloned(anonymous, cloneSnapshot),
		log:   log.With("component", "session"),
	}
}

// View exposes the session as a read-only observable. Every snapshot it
// hands out is a private copy.
func (m *Manager) View() observable.ReadOnly[Snapshot] {
	return m.state.ReadOnly()
}

// Snapshot returns the current session.
func (m *Manager) Snapshot() Snapshot {
	return m.state.Get()
}

// Watch streams session changes until ctx is done.
func (m *Manager) Watch(ctx context.Context) <-chan Snapshot {
	return m.View().Watch(ctx)
}

func (m *Manager) State() State {
	return m.state.Get().State
}

func (m *Manager) IsAuthenticated() bool {
	return m.state.Get().State == Authenticated
}

// Token returns the access token of the current session.
func (m *Manager) Token() (string, bool) {
	s := m.state.Get()
	return s.Token, s.Token != ""
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	return m.state.Get().User
}

// TokenExpiry reads the exp claim of a JWT access token without verifying
// the signature. It is informational: restore does not act on it.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	token, ok := m.Token()
	if !ok {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Login exchanges credentials. The same call serves both steps of a
// two-factor login: without code first, then with code once the server has
// asked for it. Rejected credentials come back as api.ErrUnauthorized,
// inactive or insufficiently privileged accounts as api.ErrForbidden; the
// session is left untouched in both cases.
func (m *Manager) Login(ctx context.Context, email, password, code string) (*LoginResult, error) {
	resp, err := m.auth.Login(ctx, models.LoginRequest{Email: email, Password: password, Code: code})
	if err != nil {
		m.log.Info(ctx, "login rejected", "email", email, "second_step", code != "", "err", err)
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if resp.Complete() {
		if err := m.persist(ctx, resp.Token, resp.User); err != nil {
			return nil, err
		}
		m.state.Set(authenticated(resp.Token, resp.User))
		m.log.Info(ctx, "logged in", "user_id", resp.User.ID)
		return &LoginResult{Outcome: OutcomeAuthenticated, User: cloneUser(resp.User)}, nil
	}

	if resp.Require2FA {
		if cur := m.state.Get(); cur.State != Authenticated {
			m.state.Set(Snapshot{State: AwaitingSecondFactor, PendingEmail: email})
		}
		m.log.Info(ctx, "second factor required", "email", email)
		return &LoginResult{Outcome: OutcomeSecondFactorRequired}, nil
	}

	return nil, fmt.Errorf("%w: login reply carries neither session nor 2fa request", api.ErrUnauthorized)
}

// CancelSecondFactor abandons a pending two-factor login.
func (m *Manager) CancelSecondFactor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Get().State == AwaitingSecondFactor {
		m.state.Set(anonymous)
	}
}

// Logout clears the session in memory and in storage. It never fails:
// storage errors are logged, the in-memory session is gone regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) {
	m.state.Set(anonymous)
	if err := m.repo.Delete(ctx, sessionrepo.KeyAccessToken, sessionrepo.KeyUserData); err != nil {
		m.log.Error(ctx, "failed to clear persisted session", "err", err)
	}
}

// Restore projects the persisted session into memory. Both keys present and
// parsable yields Authenticated; both absent yields Anonymous; any other
// combination is treated as corruption and healed by a forced logout.
// Only a storage read failure is returned.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.repo.Get(ctx, sessionrepo.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	userJSON, err := m.repo.Get(ctx, sessionrepo.KeyUserData)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if len(token) == 0 && len(userJSON) == 0 {
		m.state.Set(anonymous)
		return nil
	}

	user, err := decodeUser(token, userJSON)
	if err != nil {
		m.log.Warn(ctx, "discarding persisted session", "err", err)
		m.clear(ctx)
		return nil
	}

	m.state.Set(authenticated(string(token), user))
	m.log.Debug(ctx, "session restored", "user_id", user.ID)
	return nil
}

func decodeUser(token, userJSON []byte) (*models.User, error) {
	if len(token) == 0 || len(userJSON) == 0 {
		return nil, fmt.Errorf("%w: token and user must both be present", errCorruptSession)
	}
	var user *models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptSession, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: empty user record", errCorruptSession)
	}
	return user, nil
}

// persist writes the token/user pair. Callers hold m.mu.
func (m *Manager) persist(ctx context.Context, token string, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	err = m.repo.Save(ctx, map[string][]byte{
		sessionrepo.KeyAccessToken: []byte(token),
		sessionrepo.KeyUserData:    userJSON,
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// ChangePassword asks the backend to change the current user's password.
// The server identifies the user by the bearer token; the session is kept.
func (m *Manager) ChangePassword(ctx context.Context, newPassword string) error {
	return m.auth.ChangePassword(ctx, newPassword)
}

// ForgotPassword requests a reset mail and returns the server's generic
// acknowledgement.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (string, error) {
	return m.auth.ForgotPassword(ctx, email)
}

func (m *Manager) Register(ctx context.Context, user models.RegisterUser) error {
	return m.auth.Register(ctx, user)
}

func (m *Manager) SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error) {
	return m.auth.SetupTwoFactor(ctx)
}

func (m *Manager) ActivateTwoFactor(ctx context.Context, secret, code string) error {
	return m.auth.ActivateTwoFactor(ctx, secret, code)
}
