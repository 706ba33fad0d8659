package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, user models.RegisterUser) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/register", user, nil)
}

// ForgotPassword returns the server's generic acknowledgement. The reply does
// not reveal whether the address exists.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.sendJSON(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email}, &out)
	return out.Message, err
}

func (c *HTTPClient) ChangePassword(ctx context.Context, newPassword string) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/user/change-password",
		map[string]string{"newPassword": newPassword}, nil)
}

func (c *HTTPClient) SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error) {
	var out models.TwoFactorSetup
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/2fa/setup", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ActivateTwoFactor(ctx context.Context, secret, code string) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/auth/2fa/activate",
		map[string]string{"secret": secret, "code": code}, nil)
}
