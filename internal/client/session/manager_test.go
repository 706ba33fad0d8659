package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	sessionrepo "github.com/dmitrijs2005/cakeplanner/internal/client/repositories/session"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
)

// ---- fakes ----

// fakeAuth implements api.AuthAPI with scripted login replies.
type fakeAuth struct {
	replies []loginReply
	calls   []models.LoginRequest

	changePasswordArg string
	changePasswordErr error
}

type loginReply struct {
	resp *models.AuthResponse
	err  error
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	f.calls = append(f.calls, req)
	if len(f.replies) == 0 {
		return nil, errors.New("unexpected login call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.resp, r.err
}

func (f *fakeAuth) Register(context.Context, models.RegisterUser) error { return nil }
func (f *fakeAuth) ForgotPassword(context.Context, string) (string, error) {
	return "ok", nil
}
func (f *fakeAuth) ChangePassword(_ context.Context, pw string) error {
	f.changePasswordArg = pw
	return f.changePasswordErr
}
func (f *fakeAuth) SetupTwoFactor(context.Context) (*models.TwoFactorSetup, error) {
	return &models.TwoFactorSetup{Secret: "S"}, nil
}
func (f *fakeAuth) ActivateTwoFactor(context.Context, string, string) error { return nil }

// failingRepo wraps a memory repository and fails writes on demand.
type failingRepo struct {
	*sessionrepo.MemoryRepository
	saveErr error
}

func (f *failingRepo) Save(ctx context.Context, v map[string][]byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryRepository.Save(ctx, v)
}

// ---- helpers ----

var testUser = &models.User{ID: "u1", Name: "Ann", Email: "a@b.com", IsActive: true, GroupID: "G1", GroupRole: models.GroupRoleMember}

func newTestManager(t *testing.T, replies ...loginReply) (*Manager, *fakeAuth, *sessionrepo.MemoryRepository) {
	t.Helper()
	auth := &fakeAuth{replies: replies}
	repo := sessionrepo.NewMemoryRepository()
	return NewManager(auth, repo, logging.Discard()), auth, repo
}

func persisted(t *testing.T, repo sessionrepo.Repository) (token, user []byte) {
	t.Helper()
	ctx := context.Background()
	token, err := repo.Get(ctx, sessionrepo.KeyAccessToken)
	require.NoError(t, err)
	user, err = repo.Get(ctx, sessionrepo.KeyUserData)
	require.NoError(t, err)
	return token, user
}

// requirePaired checks that token and user are set together, in memory and
// in storage.
func requirePaired(t *testing.T, m *Manager, repo sessionrepo.Repository) {
	t.Helper()
	s := m.Snapshot()
	require.Equal(t, s.Token != "", s.User != nil, "in-memory pair broken: %+v", s)

	tok, usr := persisted(t, repo)
	require.Equal(t, len(tok) > 0, len(usr) > 0, "persisted pair broken")
}

func seed(t *testing.T, repo sessionrepo.Repository, token, user string) {
	t.Helper()
	v := map[string][]byte{}
	if token != "" {
		v[sessionrepo.KeyAccessToken] = []byte(token)
	}
	if user != "" {
		v[sessionrepo.KeyUserData] = []byte(user)
	}
	require.NoError(t, repo.Save(context.Background(), v))
}

// ---- tests ----

func TestLogin_TwoFactorScenario(t *testing.T) {
	m, auth, repo := newTestManager(t,
		loginReply{resp: &models.AuthResponse{Require2FA: true}},
		loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}},
	)
	ctx := context.Background()

	res, err := m.Login(ctx, "a@b.com", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSecondFactorRequired, res.Outcome)
	assert.Equal(t, AwaitingSecondFactor, m.State())
	assert.Equal(t, "a@b.com", m.Snapshot().PendingEmail)
	_, ok := m.Token()
	assert.False(t, ok)
	tok, usr := persisted(t, repo)
	assert.Nil(t, tok)
	assert.Nil(t, usr)

	res, err = m.Login(ctx, "a@b.com", "pw", "123456")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticated, res.Outcome)
	assert.Equal(t, Authenticated, m.State())

	token, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "T1", token)

	tok, usr = persisted(t, repo)
	assert.Equal(t, "T1", string(tok))
	var stored models.User
	require.NoError(t, json.Unmarshal(usr, &stored))
	assert.Empty(t, cmp.Diff(*testUser, stored))

	require.Len(t, auth.calls, 2)
	assert.Empty(t, auth.calls[0].Code)
	assert.Equal(t, "123456", auth.calls[1].Code)
}

func TestLogin_RejectedLeavesSessionUntouched(t *testing.T) {
	for _, target := range []error{api.ErrUnauthorized, api.ErrForbidden, api.ErrUnavailable} {
		t.Run(target.Error(), func(t *testing.T) {
			m, _, repo := newTestManager(t, loginReply{err: fmt.Errorf("%w: nope", target)})

			_, err := m.Login(context.Background(), "a@b.com", "bad", "")
			require.ErrorIs(t, err, target)
			assert.Equal(t, Anonymous, m.State())
			requirePaired(t, m, repo)
		})
	}
}

func TestLogin_WrongCodeKeepsAwaitingSecondFactor(t *testing.T) {
	m, _, _ := newTestManager(t,
		loginReply{resp: &models.AuthResponse{Require2FA: true}},
		loginReply{err: api.ErrUnauthorized},
	)
	ctx := context.Background()

	_, err := m.Login(ctx, "a@b.com", "pw", "")
	require.NoError(t, err)
	_, err = m.Login(ctx, "a@b.com", "pw", "000000")
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.Equal(t, AwaitingSecondFactor, m.State())
}

func TestCancelSecondFactor(t *testing.T) {
	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Require2FA: true}})

	_, err := m.Login(context.Background(), "a@b.com", "pw", "")
	require.NoError(t, err)

	m.CancelSecondFactor()
	assert.Equal(t, Anonymous, m.State())
	assert.Empty(t, m.Snapshot().PendingEmail)
}

func TestLogin_EmptyReplyIsRejected(t *testing.T) {
	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "T1"}})

	_, err := m.Login(context.Background(), "a@b.com", "pw", "")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, Anonymous, m.State())
}

func TestLogin_PersistFailureKeepsAnonymous(t *testing.T) {
	auth := &fakeAuth{replies: []loginReply{{resp: &models.AuthResponse{Token: "T1", User: testUser}}}}
	repo := &failingRepo{MemoryRepository: sessionrepo.NewMemoryRepository(), saveErr: errors.New("disk full")}
	m := NewManager(auth, repo, logging.Discard())

	_, err := m.Login(context.Background(), "a@b.com", "pw", "")
	require.ErrorContains(t, err, "persist session")
	assert.Equal(t, Anonymous, m.State())
	_, ok := m.Token()
	assert.False(t, ok)
}

func TestLogout_ClearsMemoryAndStorage(t *testing.T) {
	m, _, repo := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}})
	ctx := context.Background()

	_, err := m.Login(ctx, "a@b.com", "pw", "")
	require.NoError(t, err)
	require.True(t, m.IsAuthenticated())

	m.Logout(ctx)

	_, ok := m.Token()
	assert.False(t, ok)
	assert.Nil(t, m.CurrentUser())
	assert.Equal(t, Anonymous, m.State())
	tok, usr := persisted(t, repo)
	assert.Nil(t, tok)
	assert.Nil(t, usr)
}

func TestRestore_ValidPairIsIdempotent(t *testing.T) {
	m, _, repo := newTestManager(t)
	raw, err := json.Marshal(testUser)
	require.NoError(t, err)
	seed(t, repo, "T1", string(raw))
	ctx := context.Background()

	require.NoError(t, m.Restore(ctx))
	first := m.Snapshot()
	require.NoError(t, m.Restore(ctx))
	second := m.Snapshot()

	assert.Equal(t, Authenticated, first.State)
	assert.Equal(t, "T1", first.Token)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestRestore_EmptyStorageIsAnonymous(t *testing.T) {
	m, _, repo := newTestManager(t)

	require.NoError(t, m.Restore(context.Background()))
	assert.Equal(t, Anonymous, m.State())
	requirePaired(t, m, repo)
}

func TestRestore_CorruptStateSelfHeals(t *testing.T) {
	tests := []struct {
		name  string
		token string
		user  string
	}{
		{name: "unparsable user", token: "T1", user: "{not json"},
		{name: "null user", token: "T1", user: "null"},
		{name: "token without user", token: "T1"},
		{name: "user without token", user: `{"id":"u1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, repo := newTestManager(t)
			seed(t, repo, tt.token, tt.user)

			require.NoError(t, m.Restore(context.Background()))

			assert.Equal(t, Anonymous, m.State())
			tok, usr := persisted(t, repo)
			assert.Nil(t, tok)
			assert.Nil(t, usr)
		})
	}
}

func TestPairingInvariant_AcrossOperations(t *testing.T) {
	m, _, repo := newTestManager(t,
		loginReply{resp: &models.AuthResponse{Require2FA: true}},
		loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}},
		loginReply{err: api.ErrUnauthorized},
		loginReply{resp: &models.AuthResponse{Token: "T2", User: testUser}},
	)
	ctx := context.Background()

	steps := []func(){
		func() { _ = m.Restore(ctx) },
		func() { _, _ = m.Login(ctx, "a@b.com", "pw", "") },
		func() { _, _ = m.Login(ctx, "a@b.com", "pw", "123456") },
		func() { _ = m.Restore(ctx) },
		func() { _, _ = m.Login(ctx, "a@b.com", "bad", "") },
		func() { m.Logout(ctx) },
		func() { _ = m.Restore(ctx) },
		func() { _, _ = m.Login(ctx, "a@b.com", "pw", "") },
		func() { seed(t, repo, "", "{broken"); _ = m.Restore(ctx) },
	}

	for i, step := range steps {
		step()
		t.Logf("after step %d: %s", i, m.State())
		requirePaired(t, m, repo)
	}
	assert.Equal(t, Anonymous, m.State())
}

func TestWatch_ObservesLoginAndLogout(t *testing.T) {
	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := m.Watch(ctx)
	require.Equal(t, Anonymous, (<-ch).State)

	_, err := m.Login(ctx, "a@b.com", "pw", "")
	require.NoError(t, err)
	select {
	case s := <-ch:
		assert.Equal(t, Authenticated, s.State)
		assert.Equal(t, "u1", s.User.ID)
	case <-time.After(time.Second):
		t.Fatal("login not observed")
	}

	m.Logout(ctx)
	select {
	case s := <-ch:
		assert.Equal(t, Anonymous, s.State)
	case <-time.After(time.Second):
		t.Fatal("logout not observed")
	}
}

func TestCurrentUser_ReturnsCopy(t *testing.T) {
	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}})
	_, err := m.Login(context.Background(), "a@b.com", "pw", "")
	require.NoError(t, err)

	u := m.CurrentUser()
	u.GroupID = "hijacked"

	assert.Equal(t, "G1", m.CurrentUser().GroupID)
}

func TestView_SnapshotsCannotChangeSession(t *testing.T) {
	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := m.Login(ctx, "a@b.com", "pw", "")
	require.NoError(t, err)

	watched := <-m.Watch(ctx)
	watched.User.IsAdmin = true
	watched.User.GroupID = "G2"

	m.View().Get().User.Email = "evil@x"
	m.Snapshot().User.Name = "Mallory"

	u := m.CurrentUser()
	assert.False(t, u.IsAdmin)
	assert.Equal(t, "G1", u.GroupID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
}

func TestView_IsNotWritable(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, isSettable := m.View().(interface{ Set(Snapshot) })

	assert.False(t, isSettable)
	assert.Equal(t, Anonymous, m.State())
}

func TestChangePassword_DelegatesAndKeepsSession(t *testing.T) {
	m, auth, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "T1", User: testUser}})
	ctx := context.Background()
	_, err := m.Login(ctx, "a@b.com", "pw", "")
	require.NoError(t, err)

	require.NoError(t, m.ChangePassword(ctx, "n3w-secret"))
	assert.Equal(t, "n3w-secret", auth.changePasswordArg)
	assert.True(t, m.IsAuthenticated())
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: signed, User: testUser}})
	_, ok := m.TokenExpiry()
	assert.False(t, ok, "no token yet")

	_, err = m.Login(context.Background(), "a@b.com", "pw", "")
	require.NoError(t, err)

	got, ok := m.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	m, _, _ := newTestManager(t, loginReply{resp: &models.AuthResponse{Token: "opaque", User: testUser}})
	_, err := m.Login(context.Background(), "a@b.com", "pw", "")
	require.NoError(t, err)

	_, ok := m.TokenExpiry()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "awaiting-2fa", AwaitingSecondFactor.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}
