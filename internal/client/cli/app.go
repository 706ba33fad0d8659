package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	"github.com/dmitrijs2005/cakeplanner/internal/client/notify"
	"github.com/dmitrijs2005/cakeplanner/internal/client/session"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
)

// sessionService is the part of *session.Manager the CLI drives.
type sessionService interface {
	Login(ctx context.Context, email, password, code string) (*session.LoginResult, error)
	CancelSecondFactor()
	Logout(ctx context.Context)
	State() session.State
	IsAuthenticated() bool
	CurrentUser() *models.User
	TokenExpiry() (time.Time, bool)
	Register(ctx context.Context, user models.RegisterUser) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ChangePassword(ctx context.Context, newPassword string) error
	SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error)
	ActivateTwoFactor(ctx context.Context, secret, code string) error
}

// backend is the non-auth part of the API the CLI calls directly.
type backend interface {
	api.EventAPI
	api.AdminAPI
	SystemInfo(ctx context.Context) (*models.SystemInfo, error)
}

type subscriber interface {
	Subscribe(ctx context.Context, endpoint string, h notify.Handler) (*notify.Subscription, error)
}

// Options carries the settings App needs from config.
type Options struct {
	StreamURL   string
	DownloadDir string
}

type App struct {
	session  sessionService
	backend  backend
	notifier subscriber
	opts     Options
	log      logging.Logger

	reader   *bufio.Reader
	out      io.Writer
	validate *validator.Validate
	sanitize *bluemonday.Policy
	now      func() time.Time
}

func NewApp(s sessionService, b backend, n subscriber, opts Options, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session:  s,
		backend:  b,
		notifier: n,
		opts:     opts,
		log:      log.With("component", "cli"),
		reader:   bufio.NewReader(in),
		out:      out,
		validate: newValidator(),
		sanitize: bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// Run prints a greeting and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.println("Cake Planner CLI (type 'help' for commands)")
	if u := a.session.CurrentUser(); u != nil {
		a.printf("Welcome back, %s.\n", u.Name)
		a.remindPasswordChange(u)
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) IsAuthenticated() bool {
	return a.session.IsAuthenticated()
}

func (a *App) CurrentUser() *models.User {
	return a.session.CurrentUser()
}

// status is shown in the prompt.
func (a *App) status() string {
	switch a.session.State() {
	case session.Authenticated:
		if u := a.session.CurrentUser(); u != nil {
			return u.Email
		}
	case session.AwaitingSecondFactor:
		return "2fa pending"
	}
	return "guest"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}
