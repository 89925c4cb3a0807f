package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tempoflow-ai/tempoflow/internal/auth"
)

// CreateUser inserts an account. A duplicate email gives auth.ErrUserExists.
func (s *SQLiteStore) CreateUser(ctx context.Context, u auth.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (uid, email, display_name, provider, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.UID, auth.NormalizeEmail(u.Email), u.DisplayName, string(u.Provider), u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return auth.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks an account up case-insensitively.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	var (
		u         auth.User
		provider  string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT uid, email, display_name, provider, password_hash, created_at
		FROM users WHERE email = ?
	`, auth.NormalizeEmail(email)).Scan(&u.UID, &u.Email, &u.DisplayName, &provider, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("query user: %w", err)
	}
	u.Provider = auth.Provider(provider)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}
