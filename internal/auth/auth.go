// Package auth signs users in with an email and password or with Google,
// and remembers the current identity between runs.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Provider names an identity provider.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

// SessionKey is the key-value entry holding the signed-in identity.
const SessionKey = "auth.session"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserExists          = errors.New("an account with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnsupportedProvider = errors.New("unsupported sign-in provider")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrInvalidSignUp       = errors.New("invalid sign-up")
)

// Credentials is the input to a sign-in attempt. Which fields matter depends
// on Provider: Email and Password for password, AuthCode for google.
type Credentials struct {
	Provider    Provider `json:"provider"`
	Email       string   `json:"email,omitempty"`
	Password    string   `json:"password,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
	AuthCode    string   `json:"authCode,omitempty"`
}

// UserIdentity is the authenticated user as the rest of the app sees it.
type UserIdentity struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName,omitempty"`
	Provider    Provider `json:"provider"`
}

// User is a stored account.
type User struct {
	UID          string
	Email        string
	DisplayName  string
	Provider     Provider
	PasswordHash []byte
	CreatedAt    time.Time
}

// Identity strips credentials from u.
func (u User) Identity() UserIdentity {
	return UserIdentity{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName, Provider: u.Provider}
}

// Session is what gets persisted under SessionKey.
type Session struct {
	Identity   UserIdentity `json:"identity"`
	SignedInAt time.Time    `json:"signedInAt"`
}

// Authenticator verifies credentials for one provider.
type Authenticator interface {
	SignIn(ctx context.Context, c Credentials) (UserIdentity, error)
}

// Registrar creates new accounts.
type Registrar interface {
	SignUp(ctx context.Context, c Credentials) (UserIdentity, error)
}

// UserStore persists accounts. Emails are compared case-insensitively.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// KV is a JSON key-value store.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
