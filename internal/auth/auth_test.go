package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type mapUsers struct {
	mu    sync.Mutex
	users map[string]User
}

func newMapUsers() *mapUsers { return &mapUsers{users: map[string]User{}} }

func (m *mapUsers) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NormalizeEmail(u.Email)
	if _, ok := m.users[key]; ok {
		return ErrUserExists
	}
	m.users[key] = u
	return nil
}

func (m *mapUsers) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[NormalizeEmail(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

type mapKV struct {
	data map[string][]byte
}

func newMapKV() *mapKV { return &mapKV{data: map[string][]byte{}} }

func (m *mapKV) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *mapKV) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mapKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newPasswordAuth(users UserStore) *PasswordAuthenticator {
	return NewPasswordAuthenticator(users, WithBcryptCost(bcrypt.MinCost))
}

func TestPasswordAuthenticator_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	a := newPasswordAuth(newMapUsers())

	id, err := a.SignUp(ctx, Credentials{Email: "  Ada@Example.com ", Password: "lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "ada", id.DisplayName)
	assert.Equal(t, ProviderPassword, id.Provider)
	assert.True(t, strings.HasPrefix(id.UID, "user-"))

	got, err := a.SignIn(ctx, Credentials{Email: "ADA@example.com", Password: "lovelace"})
	require.NoError(t, err)
	assert.Equal(t, id.UID, got.UID)
}

func TestPasswordAuthenticator_Rejections(t *testing.T) {
	ctx := context.Background()
	a := newPasswordAuth(newMapUsers())
	_, err := a.SignUp(ctx, Credentials{Email: "grace@example.com", Password: "hopper1", DisplayName: "Grace"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"wrong password", Credentials{Email: "grace@example.com", Password: "nope123"}},
		{"unknown email", Credentials{Email: "nobody@example.com", Password: "hopper1"}},
		{"empty password", Credentials{Email: "grace@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SignIn(ctx, tt.creds)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestPasswordAuthenticator_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	a := newPasswordAuth(newMapUsers())

	_, err := a.SignUp(ctx, Credentials{Email: "not-an-email", Password: "secret1"})
	assert.ErrorContains(t, err, "valid email")

	_, err = a.SignUp(ctx, Credentials{Email: "x@example.com", Password: "abc"})
	assert.ErrorContains(t, err, "at least 6")

	_, err = a.SignUp(ctx, Credentials{Email: "x@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = a.SignUp(ctx, Credentials{Email: "X@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestPasswordAuthenticator_GoogleAccountHasNoPassword(t *testing.T) {
	ctx := context.Background()
	users := newMapUsers()
	require.NoError(t, users.CreateUser(ctx, User{UID: "google-1", Email: "g@example.com", Provider: ProviderGoogle}))

	_, err := newPasswordAuth(users).SignIn(ctx, Credentials{Email: "g@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRouter_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	r := NewRouter(kv, map[Provider]Authenticator{
		ProviderPassword: newPasswordAuth(newMapUsers()),
		ProviderGoogle:   nil,
	})

	assert.True(t, r.Supports(ProviderPassword))
	assert.False(t, r.Supports(ProviderGoogle))

	_, err := r.Current(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	id, err := r.SignUp(ctx, Credentials{Email: "lin@example.com", Password: "secret1"})
	require.NoError(t, err)

	s, err := r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, s.Identity)
	assert.False(t, s.SignedInAt.IsZero())

	require.NoError(t, r.SignOut(ctx))
	require.NoError(t, r.SignOut(ctx))
	_, err = r.Current(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	got, err := r.SignIn(ctx, Credentials{Email: "lin@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, id.UID, got.UID)

	_, err = r.SignIn(ctx, Credentials{Provider: ProviderGoogle, AuthCode: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func fakeGoogle(t *testing.T, email, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/token"):
			_ = r.ParseForm()
			if r.PostForm.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = fmt.Fprint(w, `{"error":"invalid_grant"}`)
				return
			}
			_, _ = fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
		case strings.HasSuffix(r.URL.Path, "/userinfo"):
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = fmt.Fprintf(w, `{"id":"1234","email":%q,"name":%q}`, email, name)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleAuthenticator_SignIn(t *testing.T) {
	ctx := context.Background()
	srv := fakeGoogle(t, "Kay@Example.com", "Kay")
	users := newMapUsers()

	var gotToken *oauth2.Token
	a := NewGoogleAuthenticator(GoogleConfig{ClientID: "cid", ClientSecret: "secret", RedirectURL: "http://127.0.0.1/cb"}, users,
		WithOAuthEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}),
		WithUserinfoEndpoint(srv.URL+"/"),
		WithTokenHandler(func(_ context.Context, tok *oauth2.Token) { gotToken = tok }),
	)

	id, err := a.SignIn(ctx, Credentials{Provider: ProviderGoogle, AuthCode: "good-code"})
	require.NoError(t, err)
	assert.Equal(t, "google-1234", id.UID)
	assert.Equal(t, "kay@example.com", id.Email)
	assert.Equal(t, "Kay", id.DisplayName)
	require.NotNil(t, gotToken)
	assert.Equal(t, "tok", gotToken.AccessToken)

	again, err := a.SignIn(ctx, Credentials{Provider: ProviderGoogle, AuthCode: "good-code"})
	require.NoError(t, err)
	assert.Equal(t, id.UID, again.UID)

	_, err = a.SignIn(ctx, Credentials{Provider: ProviderGoogle, AuthCode: "bad"})
	assert.Error(t, err)

	_, err = a.SignIn(ctx, Credentials{Provider: ProviderGoogle})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGoogleAuthenticator_AuthCodeURL(t *testing.T) {
	a := NewGoogleAuthenticator(GoogleConfig{ClientID: "cid", RedirectURL: "http://127.0.0.1:6789/cb"}, newMapUsers())
	u := a.AuthCodeURL("xyz")
	assert.Contains(t, u, "client_id=cid")
	assert.Contains(t, u, "state=xyz")
	assert.Contains(t, u, "access_type=offline")
}

func TestWaitForCode(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String() + "/cb"

	go func() {
		resp, err := http.Get(base + "?state=s1&code=abc")
		if err == nil {
			_ = resp.Body.Close()
		}
	}()

	code, err := WaitForCode(context.Background(), ln, "s1")
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
}

func TestWaitForCode_StateMismatch(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String() + "/cb"

	go func() {
		resp, err := http.Get(base + "?state=other&code=abc")
		if err == nil {
			_ = resp.Body.Close()
		}
	}()

	_, err = WaitForCode(context.Background(), ln, "s1")
	assert.ErrorContains(t, err, "state mismatch")
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewTokenStore(kv)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	store.Handler()(ctx, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})
	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", tok.RefreshToken)

	r := NewRouter(kv, nil)
	require.NoError(t, r.SignOut(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn, "sign-out drops the google token")
}
