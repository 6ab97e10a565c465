package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

// PutUser inserts a user or refreshes the display name of an existing one.
func (s *Store) PutUser(ctx context.Context, user domain.User) error {
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return fmt.Errorf("user email is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (email, display_name, display_name_key, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
    display_name = excluded.display_name,
    display_name_key = excluded.display_name_key`,
		email, strings.TrimSpace(user.DisplayName), domain.NameKey(user.DisplayName), toMillis(user.CreatedAt),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser loads a user by email.
func (s *Store) GetUser(ctx context.Context, email string) (domain.User, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT email, display_name, created_at FROM users WHERE email = ?`,
		strings.TrimSpace(email),
	)
	return scanUser(row)
}

// GetUserByDisplayName loads a user by case-insensitive display name.
func (s *Store) GetUserByDisplayName(ctx context.Context, displayName string) (domain.User, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT email, display_name, created_at FROM users WHERE display_name_key = ?`,
		domain.NameKey(displayName),
	)
	return scanUser(row)
}

// UpdateDisplayName changes a user's display name.
func (s *Store) UpdateDisplayName(ctx context.Context, email string, displayName string) error {
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE users SET display_name = ?, display_name_key = ? WHERE email = ?`,
		strings.TrimSpace(displayName), domain.NameKey(displayName), strings.TrimSpace(email),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var createdAt int64
	if err := row.Scan(&user.Email, &user.DisplayName, &createdAt); err != nil {
		return domain.User{}, notFound(err)
	}
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}
