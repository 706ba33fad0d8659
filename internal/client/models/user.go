// Package models defines client-side data models shared by the cakeplanner
// API client, session manager and CLI.
package models

// Group roles a user can hold inside their group.
const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"
)

// User is the authenticated principal as returned by the backend.
//
// Optional attributes are pointers or empty strings when the server omits
// them; JSON tags follow the backend's camelCase wire names.
type User struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	IsAdmin            bool   `json:"isAdmin"`
	IsActive           bool   `json:"isActive"`
	MustChangePassword *bool  `json:"mustChangePassword,omitempty"`
	LastLoginAt        string `json:"lastLoginAt,omitempty"`
	GroupID            string `json:"groupId,omitempty"`
	GroupRole          string `json:"groupRole,omitempty"`
	EmailLanguage      string `json:"emailLanguage,omitempty"`
	Language           string `json:"language,omitempty"`
	Has2FA             *bool  `json:"has2FA,omitempty"`
}

// IsGroupAdmin reports whether u administers the group it belongs to.
func (u *User) IsGroupAdmin() bool {
	return u != nil && u.GroupRole == GroupRoleAdmin && u.GroupID != ""
}

// CanAdminister reports whether u may access admin-only surfaces: either the
// global admin flag is set or u holds the admin role in its group.
func (u *User) CanAdminister() bool {
	if u == nil {
		return false
	}
	return u.IsAdmin || u.IsGroupAdmin()
}

// MustChange reports whether the server flagged u for a password change.
func (u *User) MustChange() bool {
	return u != nil && u.MustChangePassword != nil && *u.MustChangePassword
}

// RegisterUser is the payload for self-registration.
type RegisterUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=de en"`
}

// LoginRequest is the credential exchange payload. Code is only sent for the
// second step of a two-factor login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code,omitempty" validate:"omitempty,numeric,len=6"`
}

// AuthResponse is the login endpoint reply. A response with Require2FA set
// and no token means the caller must repeat the login with a code.
type AuthResponse struct {
	Token      string `json:"token,omitempty"`
	User       *User  `json:"user,omitempty"`
	Require2FA bool   `json:"require2fa,omitempty"`
}

// Complete reports whether r carries a full session.
func (r *AuthResponse) Complete() bool {
	return r != nil && r.Token != "" && r.User != nil
}

// TwoFactorSetup is returned when a user starts enrolling a TOTP device.
type TwoFactorSetup struct {
	Secret  string `json:"secret"`
	OTPAuth string `json:"otpauth"`
}
