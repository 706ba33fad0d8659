package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	"github.com/dmitrijs2005/cakeplanner/internal/client/session"
)

const maxCodeAttempts = 3

type newPassword struct {
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirmation" validate:"eqfield=Password"`
}

type otpCode struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

type emailOnly struct {
	Email string `json:"email" validate:"required,email"`
}

// Register creates an account. New accounts usually need to be activated by
// an administrator before the first login.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := a.prompt("Your name")
	if err != nil {
		return err
	}
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	lang, err := a.prompt("Language (de/en, empty for default)")
	if err != nil {
		return err
	}

	user := models.RegisterUser{Name: name, Email: email, Password: password, Language: strings.ToLower(lang)}
	if err := a.check(user); err != nil {
		return err
	}
	if err := a.session.Register(ctx, user); err != nil {
		return err
	}

	a.println("Registration successful. You can log in once your account has been activated.")
	return nil
}

// Login runs the password step and, when the server asks for it, the
// one-time code step. Failures are reported here rather than returned so
// the user sees the same wording as on the login page.
func (a *App) Login(ctx context.Context, _ []string) error {
	if u := a.session.CurrentUser(); a.session.IsAuthenticated() && u != nil {
		a.printf("Already logged in as %s. Use 'logout' first.\n", u.Email)
		return nil
	}

	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	pw, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	password := string(pw)

	if err := a.check(models.LoginRequest{Email: email, Password: password}); err != nil {
		return err
	}

	res, err := a.session.Login(ctx, email, password, "")
	if err != nil {
		a.println(loginMessage(err))
		return nil
	}

	if res.Outcome == session.OutcomeSecondFactorRequired {
		res, err = a.secondFactor(ctx, email, password)
		if err != nil || res == nil {
			return err
		}
	}

	a.printf("Welcome, %s!\n", res.User.Name)
	if res.User.MustChange() {
		a.println("Your password has to be changed before you continue.")
		return a.ChangePassword(ctx, nil)
	}
	return nil
}

// secondFactor asks for the one-time code. A nil result without error means
// the login was abandoned and has already been reported.
func (a *App) secondFactor(ctx context.Context, email, password string) (*session.LoginResult, error) {
	a.println("Two-factor authentication is enabled for this account.")

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := a.prompt("6-digit code from your authenticator app (empty to cancel)")
		if err != nil {
			a.session.CancelSecondFactor()
			return nil, err
		}
		if code == "" {
			a.session.CancelSecondFactor()
			a.println("Login cancelled.")
			return nil, nil
		}
		if err := a.check(otpCode{Code: code}); err != nil {
			a.println(a.describe(err))
			continue
		}

		res, err := a.session.Login(ctx, email, password, code)
		switch {
		case err == nil && res.Outcome == session.OutcomeAuthenticated:
			return res, nil
		case err == nil, errors.Is(err, api.ErrUnauthorized):
			a.println("Wrong code.")
		default:
			a.session.CancelSecondFactor()
			a.println(loginMessage(err))
			return nil, nil
		}
	}

	a.session.CancelSecondFactor()
	a.println("Too many wrong codes. Start again with 'login'.")
	return nil, nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.println("Logged out.")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	u := a.session.CurrentUser()
	if u == nil {
		a.println("Not logged in.")
		return nil
	}

	a.printf("%s <%s>\n", u.Name, u.Email)
	a.printf("  id:       %s\n", u.ID)
	group := "none"
	if u.GroupID != "" {
		group = u.GroupID + " (" + orDefault(u.GroupRole, models.GroupRoleMember) + ")"
	}
	a.printf("  group:    %s\n", group)
	a.printf("  admin:    %s\n", yesNo(u.IsAdmin))
	a.printf("  2FA:      %s\n", yesNo(u.Has2FA != nil && *u.Has2FA))
	if u.LastLoginAt != "" {
		a.printf("  last login: %s\n", u.LastLoginAt)
	}
	if exp, ok := a.session.TokenExpiry(); ok {
		a.printf("  session valid until %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// ChangePassword sets a new password for the current user.
func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	if err := a.session.ChangePassword(ctx, password); err != nil {
		return err
	}
	a.println("Password changed.")
	return nil
}

// readNewPassword asks for a password twice and validates it.
func (a *App) readNewPassword() (string, error) {
	pw, err := getPassword(a.reader, "New password (min. 8 characters)", a.out)
	if err != nil {
		return "", err
	}
	confirm, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return "", err
	}

	np := newPassword{Password: string(pw), Confirm: string(confirm)}
	if err := a.check(np); err != nil {
		if np.Password != np.Confirm {
			return "", errPasswordMismatch
		}
		return "", err
	}
	return np.Password, nil
}

func (a *App) ForgotPassword(ctx context.Context, _ []string) error {
	email, err := a.prompt("Email of your account")
	if err != nil {
		return err
	}
	if err := a.check(emailOnly{Email: email}); err != nil {
		return err
	}

	msg, err := a.session.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	a.println(orDefault(msg, "If the address is registered, a reset mail is on its way."))
	return nil
}

// SetupTwoFactor enrols an authenticator app: the server issues a secret,
// the user confirms it with a first code.
func (a *App) SetupTwoFactor(ctx context.Context, _ []string) error {
	setup, err := a.session.SetupTwoFactor(ctx)
	if err != nil {
		return err
	}

	a.println("Add this account to your authenticator app.")
	a.printf("  secret: %s\n", setup.Secret)
	if setup.OTPAuth != "" {
		a.printf("  URI:    %s\n", setup.OTPAuth)
	}

	code, err := a.prompt("Code shown by the app (empty to cancel)")
	if err != nil {
		return err
	}
	if code == "" {
		return errCancelled
	}
	if err := a.check(otpCode{Code: code}); err != nil {
		return err
	}

	if err := a.session.ActivateTwoFactor(ctx, setup.Secret, code); err != nil {
		return err
	}
	a.println("Two-factor authentication is now active.")
	return nil
}

func (a *App) remindPasswordChange(u *models.User) {
	if u.MustChange() {
		a.println("Your password has to be changed. Use 'passwd'.")
	}
}
