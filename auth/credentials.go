package auth

import (
	"context"
	"errors"

	"item-audit-api/models"
	"item-audit-api/repositories"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so callers cannot tell which of the two failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticate looks up a user by name and verifies the password against
// the stored hash.
func Authenticate(ctx context.Context, users repositories.UserRepository, username, password string) (*models.User, error) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
