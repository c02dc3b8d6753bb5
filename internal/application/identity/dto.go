package identity

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/identity"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	UserAgent string `json:"-"`
}

// SignupInput contains the input for admin signup
type SignupInput struct {
	Email     string `json:"email" binding:"required,email,max=200"`
	Password  string `json:"password" binding:"required,min=7,max=72"`
	Name      string `json:"name" binding:"max=100"`
	UserAgent string `json:"-"`
}

// RefreshInput contains the input for token refresh
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
	UserAgent    string `json:"-"`
}

// LogoutInput contains the input for logout. AccessClaims is set when the
// request carried a valid access token.
type LogoutInput struct {
	RefreshToken string       `json:"refreshToken"`
	AccessClaims *auth.Claims `json:"-"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenantId"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// AuthResult is returned by login, signup and refresh
type AuthResult struct {
	User   UserInfo        `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Status:      string(u.Status),
		AvatarURL:   u.AvatarURL,
		LastLoginAt: u.LastLoginAt,
	}
}
