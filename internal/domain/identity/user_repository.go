package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email. Emails are unique across tenants.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository stores refresh token hashes
type RefreshTokenRepository interface {
	// Create stores a new refresh token
	Create(ctx context.Context, token *RefreshToken) error

	// FindByHash finds a token by its hash
	FindByHash(ctx context.Context, hash string) (*RefreshToken, error)

	// Revoke marks a token as revoked
	Revoke(ctx context.Context, id uuid.UUID) error

	// DeleteByHash removes a token; a missing token is not an error
	DeleteByHash(ctx context.Context, hash string) error
}
