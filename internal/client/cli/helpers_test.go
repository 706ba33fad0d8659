package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	"github.com/dmitrijs2005/cakeplanner/internal/client/session"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
)

// ------------ fakes ------------

type loginCall struct {
	email, password, code string
}

type loginReply struct {
	res *session.LoginResult
	err error
}

type fakeSession struct {
	state session.State
	user  *models.User

	loginCalls   []loginCall
	loginReplies []loginReply
	cancelled    int
	loggedOut    bool

	registered     *models.RegisterUser
	changedTo      string
	changeErr      error
	forgotEmail    string
	forgotMsg      string
	setup          *models.TwoFactorSetup
	activateSecret string
	activateCode   string
	expiry         time.Time
}

func (f *fakeSession) Login(_ context.Context, email, password, code string) (*session.LoginResult, error) {
	f.loginCalls = append(f.loginCalls, loginCall{email, password, code})
	if len(f.loginReplies) == 0 {
		return nil, errors.New("unexpected login")
	}
	r := f.loginReplies[0]
	f.loginReplies = f.loginReplies[1:]
	if r.err == nil {
		switch r.res.Outcome {
		case session.OutcomeAuthenticated:
			f.state, f.user = session.Authenticated, r.res.User
		case session.OutcomeSecondFactorRequired:
			f.state = session.AwaitingSecondFactor
		}
	}
	return r.res, r.err
}

func (f *fakeSession) CancelSecondFactor() {
	f.cancelled++
	if f.state == session.AwaitingSecondFactor {
		f.state = session.Anonymous
	}
}

func (f *fakeSession) Logout(context.Context) {
	f.loggedOut = true
	f.state, f.user = session.Anonymous, nil
}

func (f *fakeSession) State() session.State           { return f.state }
func (f *fakeSession) IsAuthenticated() bool          { return f.state == session.Authenticated }
func (f *fakeSession) CurrentUser() *models.User      { return f.user }
func (f *fakeSession) TokenExpiry() (time.Time, bool) { return f.expiry, !f.expiry.IsZero() }

func (f *fakeSession) Register(_ context.Context, u models.RegisterUser) error {
	f.registered = &u
	return nil
}

func (f *fakeSession) ForgotPassword(_ context.Context, email string) (string, error) {
	f.forgotEmail = email
	return f.forgotMsg, nil
}

func (f *fakeSession) ChangePassword(_ context.Context, pw string) error {
	f.changedTo = pw
	return f.changeErr
}

func (f *fakeSession) SetupTwoFactor(context.Context) (*models.TwoFactorSetup, error) {
	return f.setup, nil
}

func (f *fakeSession) ActivateTwoFactor(_ context.Context, secret, code string) error {
	f.activateSecret, f.activateCode = secret, code
	return nil
}

// fakeBackend records calls by name and returns canned data.
type fakeBackend struct {
	calls []string
	err   error

	events      []models.CakeEvent
	eventsRange [2]string
	event       *models.CakeEvent
	ranked      []models.CakeEvent
	rating      models.Rating
	created     *models.NewCakeEvent
	createdImg  string
	photoName   string
	ics         []byte

	users     []models.User
	groups    []models.Group
	activeSet *bool
	role      string
	sysinfo   *models.SystemInfo
}

func (f *fakeBackend) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeBackend) Events(_ context.Context, start, end string) ([]models.CakeEvent, error) {
	f.eventsRange = [2]string{start, end}
	return f.events, f.record("events")
}

func (f *fakeBackend) Event(_ context.Context, id string) (*models.CakeEvent, error) {
	return f.event, f.record("event " + id)
}

func (f *fakeBackend) RankedEvents(context.Context) ([]models.CakeEvent, error) {
	return f.ranked, f.record("ranked")
}

func (f *fakeBackend) CreateEvent(_ context.Context, ev models.NewCakeEvent, image *api.Upload) error {
	f.created = &ev
	if image != nil {
		b, _ := io.ReadAll(image.Body)
		f.createdImg = image.Name + ":" + string(b)
	}
	return f.record("create")
}

func (f *fakeBackend) UploadPhoto(_ context.Context, id string, photo api.Upload) error {
	f.photoName = photo.Name
	return f.record("photo " + id)
}

func (f *fakeBackend) RateEvent(_ context.Context, id string, r models.Rating) error {
	f.rating = r
	return f.record("rate " + id)
}

func (f *fakeBackend) DeleteEvent(_ context.Context, id string) error {
	return f.record("delete " + id)
}

func (f *fakeBackend) EventICS(_ context.Context, id string) ([]byte, error) {
	return f.ics, f.record("ics " + id)
}

func (f *fakeBackend) Users(context.Context) ([]models.User, error) {
	return f.users, f.record("users")
}

func (f *fakeBackend) SetUserActive(_ context.Context, id string, active bool) error {
	f.activeSet = &active
	return f.record("active " + id)
}

func (f *fakeBackend) ForcePasswordChange(_ context.Context, id string, _ bool) error {
	return f.record("force-pw " + id)
}

func (f *fakeBackend) DeleteUser(_ context.Context, id string) error {
	return f.record("user-delete " + id)
}

func (f *fakeBackend) Groups(context.Context) ([]models.Group, error) {
	return f.groups, f.record("groups")
}

func (f *fakeBackend) CreateGroup(_ context.Context, name string) (*models.Group, error) {
	return &models.Group{ID: "G9", Name: name}, f.record("group-create " + name)
}

func (f *fakeBackend) DeleteGroup(_ context.Context, id string) error {
	return f.record("group-delete " + id)
}

func (f *fakeBackend) AssignGroup(_ context.Context, userID, groupID string) error {
	return f.record("assign " + userID + " " + groupID)
}

func (f *fakeBackend) SetGroupRole(_ context.Context, userID, groupID, role string) error {
	f.role = role
	return f.record("role " + userID + " " + groupID)
}

func (f *fakeBackend) SystemInfo(context.Context) (*models.SystemInfo, error) {
	return f.sysinfo, f.record("sysinfo")
}

// ------------ helpers ------------

var (
	member = &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", IsActive: true, GroupID: "G1", GroupRole: models.GroupRoleMember}
	admin  = &models.User{ID: "u0", Name: "Root", Email: "root@example.com", IsActive: true, IsAdmin: true}
)

func loggedIn(u *models.User) *fakeSession {
	return &fakeSession{state: session.Authenticated, user: u}
}

// newTestApp builds an App reading the given lines as user input.
func newTestApp(t *testing.T, s *fakeSession, b *fakeBackend, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := NewApp(s, b, nil, Options{DownloadDir: t.TempDir()}, logging.Discard(),
		strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	a.now = func() time.Time { return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.Local) }
	return a, &out
}

// stubPasswords makes getPassword return the given secrets in order.
func stubPasswords(t *testing.T, secrets ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) {
		if len(secrets) == 0 {
			return nil, io.EOF
		}
		s := secrets[0]
		secrets = secrets[1:]
		return []byte(s), nil
	}
}
