package middleware

import (
	"net/http"

	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys and header
const (
	TenantIDKey     = "tenant_id"
	tenantUUIDKey   = "tenant_uuid"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig holds configuration for tenant resolution
type TenantMiddlewareConfig struct {
	// DefaultTenantID is used when neither a token nor the header names a tenant
	DefaultTenantID uuid.UUID
	// HeaderEnabled allows anonymous callers to pick a tenant with X-Tenant-ID
	HeaderEnabled bool
	Logger        *zap.Logger
}

// ResolveTenant resolves the tenant of a request.
// Resolution order: JWT tenant claim > X-Tenant-ID header > default tenant.
// A malformed ID from either source is rejected with 400.
func ResolveTenant(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, source := GetJWTTenantID(c), "jwt"
		if raw == "" && cfg.HeaderEnabled {
			raw, source = c.GetHeader(TenantHeaderKey), "header"
		}

		tenantID := cfg.DefaultTenantID
		if raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "INVALID_TENANT", "Invalid tenant ID format")
				return
			}
			tenantID = parsed
		} else {
			source = "default"
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Set(tenantUUIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant resolved",
				zap.String("tenant_id", tenantID.String()),
				zap.String("source", source),
			)
		}
		c.Next()
	}
}

// GetTenantUUID returns the tenant resolved by ResolveTenant
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(tenantUUIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
