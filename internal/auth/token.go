package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

// TokenKey holds the last Google OAuth token, used for calendar access.
const TokenKey = "auth.google_token"

// TokenStore keeps the Google token in a KV store.
type TokenStore struct {
	kv KV
}

// NewTokenStore wraps kv.
func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// Save stores tok, replacing any previous token.
func (s *TokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	if err := s.kv.Set(ctx, TokenKey, tok); err != nil {
		return fmt.Errorf("save oauth token: %w", err)
	}
	return nil
}

// Load returns the stored token or ErrNotSignedIn.
func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	var tok oauth2.Token
	found, err := s.kv.Get(ctx, TokenKey, &tok)
	if err != nil {
		return nil, fmt.Errorf("load oauth token: %w", err)
	}
	if !found || (tok.AccessToken == "" && tok.RefreshToken == "") {
		return nil, ErrNotSignedIn
	}
	return &tok, nil
}

// Clear drops the stored token.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey)
}

// Handler adapts Save for WithTokenHandler. Failures are logged only.
func (s *TokenStore) Handler() func(ctx context.Context, tok *oauth2.Token) {
	return func(ctx context.Context, tok *oauth2.Token) {
		if err := s.Save(ctx, tok); err != nil {
			slog.Warn("could not keep google token", "error", err)
		}
	}
}
