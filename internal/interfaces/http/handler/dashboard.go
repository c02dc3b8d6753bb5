package handler

import (
	"context"

	dashboardapp "github.com/TreasureUzoma/idolomerch/internal/application/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SummaryProvider builds the admin dashboard
type SummaryProvider interface {
	GetSummary(ctx context.Context, tenantID uuid.UUID) (*dashboardapp.Summary, error)
}

// DashboardHandler serves the admin overview
type DashboardHandler struct {
	BaseHandler
	summary SummaryProvider
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(summary SummaryProvider) *DashboardHandler {
	return &DashboardHandler{summary: summary}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Product and order counts, paid revenue and paid revenue per UTC day over the last 7 days
// @Tags         admin-dashboard
// @Produce      json
// @Success      200 {object} APIResponse[dashboardapp.Summary]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	summary, err := h.summary.GetSummary(c.Request.Context(), tenant)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
