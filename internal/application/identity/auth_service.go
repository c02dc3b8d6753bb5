package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/identity"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.WrapDomainError("INVALID_CREDENTIALS", "Invalid email or password", shared.ErrUnauthorized)
	ErrAccountSuspended   = shared.WrapDomainError("ACCOUNT_SUSPENDED", "Account has been suspended", shared.ErrForbidden)
	ErrSignupDisabled     = shared.WrapDomainError("SIGNUP_DISABLED", "Signup is disabled", shared.ErrForbidden)
	ErrEmailTaken         = shared.WrapDomainError("EMAIL_TAKEN", "An account with this email already exists", shared.ErrAlreadyExists)
	ErrTokenInvalid       = shared.WrapDomainError("TOKEN_INVALID", "Invalid refresh token", shared.ErrUnauthorized)
	ErrTokenExpired       = shared.WrapDomainError("TOKEN_EXPIRED", "Refresh token has expired", shared.ErrUnauthorized)
	ErrTokenMaxRefresh    = shared.WrapDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again", shared.ErrUnauthorized)
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	AllowSignup     bool
	DefaultTenantID uuid.UUID
}

// AuthService handles admin authentication
type AuthService struct {
	userRepo   identity.UserRepository
	tokenRepo  identity.RefreshTokenRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tokenRepo identity.RefreshTokenRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := identity.NormalizeEmail(input.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for suspended account", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountSuspended
	}

	tokens, err := s.issue(ctx, user, input.UserAgent)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// don't fail the login over the timestamp
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return &AuthResult{User: ToUserInfo(user), Tokens: tokens}, nil
}

// Signup creates a superadmin account when signup is enabled
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if !s.config.AllowSignup {
		return nil, ErrSignupDisabled
	}

	email := identity.NormalizeEmail(input.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(s.config.DefaultTenantID, email, input.Password, identity.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(input.Name)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	tokens, err := s.issue(ctx, user, input.UserAgent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	return &AuthResult{User: ToUserInfo(user), Tokens: tokens}, nil
}

// Refresh rotates a refresh token. The old token is revoked and the role in
// the new access token is read from the user, not from the old token.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	stored, err := s.tokenRepo.FindByHash(ctx, identity.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !stored.IsUsable(time.Now()) {
		s.logger.Warn("Refresh with revoked or expired token", zap.String("token_id", stored.ID.String()))
		return nil, ErrTokenInvalid
	}

	userID, err := claims.GetUserUUID()
	if err != nil || userID != stored.UserID {
		return nil, ErrTokenInvalid
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, ErrAccountSuspended
	}

	tokens, err := s.jwtService.RefreshTokenPair(claims, user.Email, string(user.Role))
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, identity.NewRefreshToken(user.ID, tokens.RefreshToken, userAgent(input.UserAgent, stored.UserAgent), tokens.RefreshTokenExpiresAt)); err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))
	return &AuthResult{User: ToUserInfo(user), Tokens: tokens}, nil
}

// Logout deletes the stored refresh token and blacklists both tokens. An
// invalid or unknown refresh token is still a successful logout.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.RefreshToken != "" {
		if err := s.tokenRepo.DeleteByHash(ctx, identity.HashToken(input.RefreshToken)); err != nil {
			return err
		}
		if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
			s.revoke(ctx, claims)
		}
	}
	if input.AccessClaims != nil {
		s.revoke(ctx, input.AccessClaims)
		s.logger.Info("User logged out", zap.String("user_id", input.AccessClaims.UserID))
	}
	return nil
}

// GetCurrentUser returns the signed-in user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// EnsureBootstrapAdmin creates a superadmin with the given credentials unless
// the email is already registered. It is a no-op when email is empty.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	user, err := identity.NewUser(s.config.DefaultTenantID, email, password, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	user.Name = "Administrator"
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Bootstrap admin created", zap.String("email", email))
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *identity.User, ua string) (*auth.TokenPair, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	if err := s.tokenRepo.Create(ctx, identity.NewRefreshToken(user.ID, tokens.RefreshToken, ua, tokens.RefreshTokenExpiresAt)); err != nil {
		return nil, err
	}
	return tokens, nil
}

// revoke blacklists a token for the rest of its lifetime. Blacklist outages
// are logged; the stored refresh token is already gone.
func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil || claims.ID == "" {
		return
	}
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("Failed to blacklist token", zap.String("jti", claims.ID), zap.Error(err))
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	default:
		return ErrTokenInvalid
	}
}

func userAgent(current, previous string) string {
	if current != "" {
		return current
	}
	return previous
}
