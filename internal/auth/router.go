package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Router dispatches sign-in to the authenticator for the requested provider
// and keeps the resulting session in a KV store.
type Router struct {
	providers map[Provider]Authenticator
	kv        KV
	now       func() time.Time
}

// NewRouter returns a router over the given providers. Nil entries are skipped.
func NewRouter(kv KV, providers map[Provider]Authenticator) *Router {
	r := &Router{providers: make(map[Provider]Authenticator), kv: kv, now: time.Now}
	for p, a := range providers {
		if a != nil {
			r.providers[p] = a
		}
	}
	return r
}

// Supports reports whether p is configured.
func (r *Router) Supports(p Provider) bool {
	_, ok := r.providers[p]
	return ok
}

// SignIn authenticates c and records the session.
func (r *Router) SignIn(ctx context.Context, c Credentials) (UserIdentity, error) {
	if c.Provider == "" {
		c.Provider = ProviderPassword
	}
	a, ok := r.providers[c.Provider]
	if !ok {
		return UserIdentity{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, c.Provider)
	}
	id, err := a.SignIn(ctx, c)
	if err != nil {
		return UserIdentity{}, err
	}
	if err := r.remember(ctx, id); err != nil {
		return UserIdentity{}, err
	}
	slog.Info("signed in", "provider", id.Provider, "uid", id.UID)
	return id, nil
}

// SignUp creates an account with a provider that supports registration and
// signs the new user in.
func (r *Router) SignUp(ctx context.Context, c Credentials) (UserIdentity, error) {
	if c.Provider == "" {
		c.Provider = ProviderPassword
	}
	reg, ok := r.providers[c.Provider].(Registrar)
	if !ok {
		return UserIdentity{}, fmt.Errorf("%w: %s does not support sign-up", ErrUnsupportedProvider, c.Provider)
	}
	id, err := reg.SignUp(ctx, c)
	if err != nil {
		return UserIdentity{}, err
	}
	if err := r.remember(ctx, id); err != nil {
		return UserIdentity{}, err
	}
	return id, nil
}

// SignOut forgets the current session and any Google token. Signing out
// twice is not an error.
func (r *Router) SignOut(ctx context.Context) error {
	if err := r.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := NewTokenStore(r.kv).Clear(ctx); err != nil {
		return fmt.Errorf("clear oauth token: %w", err)
	}
	return nil
}

// Current returns the signed-in identity or ErrNotSignedIn.
func (r *Router) Current(ctx context.Context) (Session, error) {
	var s Session
	found, err := r.kv.Get(ctx, SessionKey, &s)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !found || s.Identity.UID == "" {
		return Session{}, ErrNotSignedIn
	}
	return s, nil
}

func (r *Router) remember(ctx context.Context, id UserIdentity) error {
	s := Session{Identity: id, SignedInAt: r.now().UTC()}
	if err := r.kv.Set(ctx, SessionKey, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
