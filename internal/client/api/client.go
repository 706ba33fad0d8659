package api

import (
	"context"
	"io"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

// TokenSource yields the current access token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Upload is a file sent as a multipart part.
type Upload struct {
	Name string
	Body io.Reader
}

// AuthAPI covers credential and account endpoints.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, user models.RegisterUser) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ChangePassword(ctx context.Context, newPassword string) error
	SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error)
	ActivateTwoFactor(ctx context.Context, secret, code string) error
}

// EventAPI covers the cake calendar.
type EventAPI interface {
	Events(ctx context.Context, start, end string) ([]models.CakeEvent, error)
	Event(ctx context.Context, id string) (*models.CakeEvent, error)
	RankedEvents(ctx context.Context) ([]models.CakeEvent, error)
	CreateEvent(ctx context.Context, event models.NewCakeEvent, image *Upload) error
	UploadPhoto(ctx context.Context, id string, photo Upload) error
	RateEvent(ctx context.Context, id string, rating models.Rating) error
	DeleteEvent(ctx context.Context, id string) error
	EventICS(ctx context.Context, id string) ([]byte, error)
}

// AdminAPI covers user and group administration.
type AdminAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	ForcePasswordChange(ctx context.Context, userID string, mustChange bool) error
	DeleteUser(ctx context.Context, userID string) error
	Groups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	AssignGroup(ctx context.Context, userID, groupID string) error
	SetGroupRole(ctx context.Context, userID, groupID, role string) error
}

// Client is the full backend contract.
type Client interface {
	AuthAPI
	EventAPI
	AdminAPI
	SystemInfo(ctx context.Context) (*models.SystemInfo, error)
}
