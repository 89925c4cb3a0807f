package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches what the hosted identity provider accepted.
const MinPasswordLength = 6

var validate = validator.New()

type signUpInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// PasswordAuthenticator checks email and password against bcrypt hashes.
type PasswordAuthenticator struct {
	users UserStore
	cost  int
	now   func() time.Time
}

// PasswordOption configures a PasswordAuthenticator.
type PasswordOption func(*PasswordAuthenticator)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) PasswordOption {
	return func(a *PasswordAuthenticator) { a.cost = cost }
}

// NewPasswordAuthenticator returns an authenticator backed by users.
func NewPasswordAuthenticator(users UserStore, opts ...PasswordOption) *PasswordAuthenticator {
	a := &PasswordAuthenticator{users: users, cost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignUp creates a password account and returns its identity.
func (a *PasswordAuthenticator) SignUp(ctx context.Context, c Credentials) (UserIdentity, error) {
	in := signUpInput{Email: NormalizeEmail(c.Email), Password: c.Password}
	if err := validate.Struct(in); err != nil {
		return UserIdentity{}, signUpError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return UserIdentity{}, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(c.DisplayName)
	if name == "" {
		name = strings.SplitN(in.Email, "@", 2)[0]
	}
	u := User{
		UID:          "user-" + uuid.New().String()[:8],
		Email:        in.Email,
		DisplayName:  name,
		Provider:     ProviderPassword,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		return UserIdentity{}, err
	}
	return u.Identity(), nil
}

// SignIn verifies the password. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (a *PasswordAuthenticator) SignIn(ctx context.Context, c Credentials) (UserIdentity, error) {
	email := NormalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return UserIdentity{}, ErrInvalidCredentials
	}
	u, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return UserIdentity{}, ErrInvalidCredentials
	}
	if err != nil {
		return UserIdentity{}, fmt.Errorf("look up user: %w", err)
	}
	if len(u.PasswordHash) == 0 {
		// account was created through another provider
		return UserIdentity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(c.Password)); err != nil {
		return UserIdentity{}, ErrInvalidCredentials
	}
	id := u.Identity()
	id.Provider = ProviderPassword
	return id, nil
}

func signUpError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidSignUp, err)
	}
	for _, e := range verrs {
		switch {
		case e.Field() == "Email":
			return fmt.Errorf("%w: a valid email address is required", ErrInvalidSignUp)
		case e.Tag() == "min" || e.Tag() == "required":
			return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidSignUp, MinPasswordLength)
		case e.Tag() == "max":
			return fmt.Errorf("%w: password is too long", ErrInvalidSignUp)
		}
	}
	return fmt.Errorf("%w: %w", ErrInvalidSignUp, err)
}
