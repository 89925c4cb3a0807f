package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleConfig holds the OAuth client registered for the app.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Scopes beyond profile and email, such as calendar access.
	ExtraScopes []string
}

// GoogleAuthenticator exchanges an OAuth2 authorization code for a token and
// resolves the Google account behind it.
type GoogleAuthenticator struct {
	oauth       *oauth2.Config
	users       UserStore
	apiEndpoint string
	now         func() time.Time
	onToken     func(ctx context.Context, tok *oauth2.Token)
}

// GoogleOption configures a GoogleAuthenticator.
type GoogleOption func(*GoogleAuthenticator)

// WithOAuthEndpoint overrides Google's authorization and token URLs.
func WithOAuthEndpoint(ep oauth2.Endpoint) GoogleOption {
	return func(a *GoogleAuthenticator) { a.oauth.Endpoint = ep }
}

// WithUserinfoEndpoint overrides the base URL of the userinfo API.
func WithUserinfoEndpoint(url string) GoogleOption {
	return func(a *GoogleAuthenticator) { a.apiEndpoint = url }
}

// WithTokenHandler is called with every token obtained, so callers can keep
// it for calendar access.
func WithTokenHandler(fn func(ctx context.Context, tok *oauth2.Token)) GoogleOption {
	return func(a *GoogleAuthenticator) { a.onToken = fn }
}

// NewGoogleAuthenticator builds an authenticator for the given client.
func NewGoogleAuthenticator(cfg GoogleConfig, users UserStore, opts ...GoogleOption) *GoogleAuthenticator {
	scopes := append([]string{
		googleoauth2.OpenIDScope,
		googleoauth2.UserinfoEmailScope,
		googleoauth2.UserinfoProfileScope,
	}, cfg.ExtraScopes...)

	a := &GoogleAuthenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		users: users,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OAuthConfig exposes the client configuration, for building token sources.
func (a *GoogleAuthenticator) OAuthConfig() *oauth2.Config { return a.oauth }

// AuthCodeURL is the consent page the user must visit.
func (a *GoogleAuthenticator) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// SignIn exchanges c.AuthCode and returns the matching account, creating one
// on first sign-in.
func (a *GoogleAuthenticator) SignIn(ctx context.Context, c Credentials) (UserIdentity, error) {
	if c.AuthCode == "" {
		return UserIdentity{}, fmt.Errorf("%w: missing authorization code", ErrInvalidCredentials)
	}

	tok, err := a.oauth.Exchange(ctx, c.AuthCode)
	if err != nil {
		return UserIdentity{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	if a.onToken != nil {
		a.onToken(ctx, tok)
	}

	opts := []option.ClientOption{option.WithHTTPClient(a.oauth.Client(ctx, tok))}
	if a.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(a.apiEndpoint))
	}
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return UserIdentity{}, fmt.Errorf("create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return UserIdentity{}, fmt.Errorf("fetch google profile: %w", err)
	}
	if info.Email == "" {
		return UserIdentity{}, fmt.Errorf("%w: google account has no email", ErrInvalidCredentials)
	}

	email := NormalizeEmail(info.Email)
	u, err := a.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		u = User{
			UID:         "google-" + info.Id,
			Email:       email,
			DisplayName: info.Name,
			Provider:    ProviderGoogle,
			CreatedAt:   a.now().UTC(),
		}
		if err := a.users.CreateUser(ctx, u); err != nil {
			return UserIdentity{}, err
		}
		slog.Debug("created account from google sign-in", "email", email)
	case err != nil:
		return UserIdentity{}, fmt.Errorf("look up user: %w", err)
	}

	id := u.Identity()
	id.Provider = ProviderGoogle
	if id.DisplayName == "" {
		id.DisplayName = info.Name
	}
	return id, nil
}
