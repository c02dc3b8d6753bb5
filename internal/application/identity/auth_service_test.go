package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/identity"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/auth"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockRefreshTokenRepository is a mock implementation of identity.RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *identity.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByHash(ctx context.Context, hash string) (*identity.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

type authFixture struct {
	svc       *AuthService
	users     *MockUserRepository
	tokens    *MockRefreshTokenRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	tenantID  uuid.UUID
}

func newAuthFixture(allowSignup bool) *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		tokens:    new(MockRefreshTokenRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		tenantID:  uuid.New(),
	}
	f.jwt = auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "idolomerch-test",
		MaxRefreshCount:        10,
	})
	f.svc = NewAuthService(f.users, f.tokens, f.jwt, f.blacklist,
		AuthServiceConfig{AllowSignup: allowSignup, DefaultTenantID: f.tenantID}, zap.NewNop())
	return f
}

func newTestUser(t *testing.T, tenantID uuid.UUID, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(tenantID, "Admin@Idolo.test", "correct-horse", role)
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(false)
	user := newTestUser(t, f.tenantID, identity.RoleAdmin)

	f.users.On("FindByEmail", mock.Anything, "admin@idolo.test").Return(user, nil)
	f.users.On("Update", mock.Anything, user).Return(nil)
	f.tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *identity.RefreshToken) bool {
		return rt.UserID == user.ID && rt.UserAgent == "curl/8" && len(rt.TokenHash) == 64
	})).Return(nil)

	result, err := f.svc.Login(context.Background(), LoginInput{Email: " ADMIN@idolo.test", Password: "correct-horse", UserAgent: "curl/8"})

	require.NoError(t, err)
	assert.Equal(t, "admin", result.User.Role)
	assert.NotNil(t, result.User.LastLoginAt)

	claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, user.ID.String(), claims.UserID)
	f.tokens.AssertExpectations(t)
}

func TestAuthService_Login_Failures(t *testing.T) {
	f := newAuthFixture(false)
	user := newTestUser(t, f.tenantID, identity.RoleAdmin)
	suspended := newTestUser(t, f.tenantID, identity.RoleAdmin)
	suspended.Email = "gone@idolo.test"
	suspended.Status = identity.UserStatusSuspended

	f.users.On("FindByEmail", mock.Anything, "admin@idolo.test").Return(user, nil)
	f.users.On("FindByEmail", mock.Anything, "gone@idolo.test").Return(suspended, nil)
	f.users.On("FindByEmail", mock.Anything, "nobody@idolo.test").Return(nil, shared.ErrNotFound)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "admin@idolo.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, unknownErr := f.svc.Login(context.Background(), LoginInput{Email: "nobody@idolo.test", Password: "whatever1"})
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.Equal(t, err.Error(), unknownErr.Error())
	assert.ErrorIs(t, unknownErr, shared.ErrUnauthorized)

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "gone@idolo.test", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrAccountSuspended)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	f.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Signup(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newAuthFixture(false)
		_, err := f.svc.Signup(context.Background(), SignupInput{Email: "new@idolo.test", Password: "longenough"})
		assert.ErrorIs(t, err, ErrSignupDisabled)
	})

	t.Run("creates superadmin in default tenant", func(t *testing.T) {
		f := newAuthFixture(true)
		f.users.On("ExistsByEmail", mock.Anything, "new@idolo.test").Return(false, nil)
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.RoleSuperAdmin && u.TenantID == f.tenantID && u.Name == "Nana"
		})).Return(nil)
		f.tokens.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Signup(context.Background(), SignupInput{Email: "New@idolo.test", Password: "longenough", Name: " Nana "})

		require.NoError(t, err)
		assert.Equal(t, "superadmin", result.User.Role)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture(true)
		f.users.On("ExistsByEmail", mock.Anything, "dup@idolo.test").Return(true, nil)
		_, err := f.svc.Signup(context.Background(), SignupInput{Email: "dup@idolo.test", Password: "longenough"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		f := newAuthFixture(true)
		f.users.On("ExistsByEmail", mock.Anything, "short@idolo.test").Return(false, nil)
		_, err := f.svc.Signup(context.Background(), SignupInput{Email: "short@idolo.test", Password: "abc"})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_PASSWORD", de.Code)
	})
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(false)
	user := newTestUser(t, f.tenantID, identity.RoleAdmin)

	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{TenantID: f.tenantID, UserID: user.ID, Email: user.Email, Role: "user"})
	require.NoError(t, err)
	stored := identity.NewRefreshToken(user.ID, pair.RefreshToken, "browser", pair.RefreshTokenExpiresAt)

	f.tokens.On("FindByHash", mock.Anything, identity.HashToken(pair.RefreshToken)).Return(stored, nil)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.tokens.On("Revoke", mock.Anything, stored.ID).Return(nil)
	f.tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *identity.RefreshToken) bool {
		return rt.TokenHash != stored.TokenHash && rt.UserAgent == "browser"
	})).Return(nil)

	result, err := f.svc.Refresh(context.Background(), RefreshInput{RefreshToken: pair.RefreshToken})

	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, result.Tokens.RefreshToken)
	claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role, "role is re-read from the user")

	oldClaims, err := f.jwt.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	revoked, err := f.blacklist.IsBlacklisted(context.Background(), oldClaims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	f.tokens.AssertExpectations(t)
}

func TestAuthService_Refresh_Rejects(t *testing.T) {
	f := newAuthFixture(false)
	user := newTestUser(t, f.tenantID, identity.RoleAdmin)
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{TenantID: f.tenantID, UserID: user.ID})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), RefreshInput{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.svc.Refresh(context.Background(), RefreshInput{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, ErrTokenInvalid)

	revoked := identity.NewRefreshToken(user.ID, pair.RefreshToken, "", pair.RefreshTokenExpiresAt)
	revoked.Revoked = true
	f.tokens.On("FindByHash", mock.Anything, identity.HashToken(pair.RefreshToken)).Return(revoked, nil)

	_, err = f.svc.Refresh(context.Background(), RefreshInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(false)
	userID := uuid.New()
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{TenantID: f.tenantID, UserID: userID, Role: "admin"})
	require.NoError(t, err)
	accessClaims, err := f.jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	f.tokens.On("DeleteByHash", mock.Anything, identity.HashToken(pair.RefreshToken)).Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), LogoutInput{RefreshToken: pair.RefreshToken, AccessClaims: accessClaims}))

	blocked, err := f.blacklist.IsBlacklisted(context.Background(), accessClaims.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	f.tokens.On("DeleteByHash", mock.Anything, identity.HashToken("not-a-jwt")).Return(nil)
	assert.NoError(t, f.svc.Logout(context.Background(), LogoutInput{RefreshToken: "not-a-jwt"}))
}

func TestAuthService_EnsureBootstrapAdmin(t *testing.T) {
	f := newAuthFixture(false)

	require.NoError(t, f.svc.EnsureBootstrapAdmin(context.Background(), "", ""))
	f.users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)

	f.users.On("ExistsByEmail", mock.Anything, "root@idolo.test").Return(false, nil).Once()
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.RoleSuperAdmin && u.Email == "root@idolo.test"
	})).Return(nil).Once()
	require.NoError(t, f.svc.EnsureBootstrapAdmin(context.Background(), "Root@idolo.test", "bootstrap-pass"))

	f.users.On("ExistsByEmail", mock.Anything, "root@idolo.test").Return(true, nil).Once()
	require.NoError(t, f.svc.EnsureBootstrapAdmin(context.Background(), "root@idolo.test", "bootstrap-pass"))
	f.users.AssertNumberOfCalls(t, "Create", 1)
}
