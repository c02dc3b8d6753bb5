package handler

import (
	"net/http"

	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/logger"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/dto"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// tenantID returns the tenant resolved by middleware.ResolveTenant
func tenantID(c *gin.Context) (uuid.UUID, bool) {
	return middleware.GetTenantUUID(c)
}

// userID returns the authenticated user, or nil for anonymous requests
func userID(c *gin.Context) *uuid.UUID {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// requireTenant writes a 500 when no tenant was resolved. It only fires if
// a route was registered without the tenant middleware.
func (h *BaseHandler) requireTenant(c *gin.Context) (uuid.UUID, bool) {
	id, ok := tenantID(c)
	if !ok {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Tenant context missing")
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDParam parses a path parameter as a UUID, answering 400 when it is not one
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// SuccessWithExtra sends a success response with endpoint-specific meta
func (h *BaseHandler) SuccessWithExtra(c *gin.Context, data, meta any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithExtra(data, meta))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BindError answers a failed ShouldBind call with field details
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts an application error to the envelope. Server-side
// failures are logged with the request logger; their cause never reaches
// the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code, message, status := dto.ResolveError(err)
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	h.Error(c, status, code, message)
}
