package models

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantAggregateModel
	Email           string              `gorm:"type:varchar(200);not null"`
	PasswordHash    string              `gorm:"type:varchar(100)"`
	Name            string              `gorm:"type:varchar(100)"`
	Role            identity.Role       `gorm:"type:varchar(20);not null;default:'user'"`
	Status          identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	AuthMethod      identity.AuthMethod `gorm:"type:varchar(20);not null;default:'email'"`
	EmailVerifiedAt *time.Time
	AvatarURL       string `gorm:"type:text"`
	LastLoginAt     *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		Name:                m.Name,
		Role:                m.Role,
		Status:              m.Status,
		AuthMethod:          m.AuthMethod,
		EmailVerifiedAt:     m.EmailVerifiedAt,
		AvatarURL:           m.AvatarURL,
		LastLoginAt:         m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Role = u.Role
	m.Status = u.Status
	m.AuthMethod = u.AuthMethod
	m.EmailVerifiedAt = u.EmailVerifiedAt
	m.AvatarURL = u.AvatarURL
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// RefreshTokenModel is the persistence model for a stored refresh token hash.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:char(64);not null;uniqueIndex"`
	UserAgent string    `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// ToDomain converts the persistence model to a domain RefreshToken.
func (m *RefreshTokenModel) ToDomain() *identity.RefreshToken {
	return &identity.RefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		UserAgent: m.UserAgent,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		CreatedAt: m.CreatedAt,
	}
}

// RefreshTokenModelFromDomain creates a new persistence model from a domain RefreshToken.
func RefreshTokenModelFromDomain(t *identity.RefreshToken) *RefreshTokenModel {
	return &RefreshTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		UserAgent: t.UserAgent,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		CreatedAt: t.CreatedAt,
	}
}
