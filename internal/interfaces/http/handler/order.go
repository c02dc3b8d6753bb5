package handler

import (
	"context"
	"net/http"

	orderapp "github.com/TreasureUzoma/idolomerch/internal/application/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Checkout places storefront orders
type Checkout interface {
	PlaceOrder(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req orderapp.PlaceOrderRequest) (*orderapp.PlaceOrderResponse, error)
}

// OrderManager reads and administers stored orders
type OrderManager interface {
	GetPublic(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, params orderapp.ListOrdersParams) (*shared.Paginated[orderapp.AdminOrderResponse], error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.AdminOrderResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req orderapp.AdminUpdateOrderRequest) (*orderapp.AdminOrderResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrderHandler serves checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	checkout Checkout
	orders   OrderManager
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkout Checkout, orders OrderManager) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

// PlaceOrder godoc
// @Summary      Place an order
// @Description  Prices the cart from the catalog, stores a pending order and returns a hosted payment link.
// @Description  Client-sent prices are ignored. Guests must send userInfo.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body  orderapp.PlaceOrderRequest  true  "Cart and addresses"
// @Success      201 {object} APIResponse[orderapp.PlaceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req orderapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	resp, err := h.checkout.PlaceOrder(c.Request.Context(), tenant, userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	o, err := h.orders.GetPublic(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// AdminList godoc
// @Summary      List orders (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        page    query  int     false  "Page number" default(1)
// @Param        limit   query  int     false  "Page size" default(15)
// @Param        search  query  string  false  "Order number or customer email"
// @Param        status  query  string  false  "Order status"
// @Success      200 {object} APIResponse[[]orderapp.AdminOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	var params orderapp.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	page, err := h.orders.List(c.Request.Context(), tenant, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AdminGet godoc
// @Summary      Get order (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200 {object} APIResponse[orderapp.AdminOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	o, err := h.orders.Get(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// AdminUpdate godoc
// @Summary      Update order (admin)
// @Description  Moves the order along its status lifecycle. Leaving a terminal status needs force=true.
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "Order ID"
// @Param        request  body  orderapp.AdminUpdateOrderRequest  true  "Changes"
// @Success      200 {object} APIResponse[orderapp.AdminOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [put]
func (h *OrderHandler) AdminUpdate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req orderapp.AdminUpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	o, err := h.orders.Update(c.Request.Context(), tenant, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// AdminDelete godoc
// @Summary      Delete order (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200 {object} SuccessResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [delete]
func (h *OrderHandler) AdminDelete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), tenant, id); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
