package handler

import (
	"context"
	"net/http"

	identityapp "github.com/TreasureUzoma/idolomerch/internal/application/identity"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/dto"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Authenticator is the admin authentication surface
type Authenticator interface {
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthResult, error)
	Signup(ctx context.Context, input identityapp.SignupInput) (*identityapp.AuthResult, error)
	Refresh(ctx context.Context, input identityapp.RefreshInput) (*identityapp.AuthResult, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*identityapp.UserInfo, error)
}

// AuthHandler handles admin authentication
type AuthHandler struct {
	BaseHandler
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  identityapp.LoginInput  true  "Credentials"
// @Success      201 {object} APIResponse[identityapp.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	input.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Signup godoc
// @Summary      Admin signup
// @Description  Only available when signup is enabled in configuration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  identityapp.SignupInput  true  "Account"
// @Success      201 {object} APIResponse[identityapp.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /admin/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var input identityapp.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	input.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Signup(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Rotates the refresh token. The presented token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  identityapp.RefreshInput  true  "Refresh token"
// @Success      200 {object} APIResponse[identityapp.AuthResult]
// @Failure      401 {object} ErrorResponse
// @Router       /admin/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identityapp.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	input.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Refresh(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the refresh token in the body and the access token in the Authorization header, when present
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  identityapp.LogoutInput  false  "Refresh token"
// @Success      200 {object} SuccessResponse
// @Router       /admin/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var input identityapp.LogoutInput
	// An empty body is allowed
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			h.BindError(c, err)
			return
		}
	}
	input.AccessClaims = middleware.GetJWTClaims(c)

	if err := h.auth.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id := userID(c)
	if id == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	user, err := h.auth.GetCurrentUser(c.Request.Context(), *id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
