package order

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemRequest is one product in a checkout payload. Price is accepted
// for compatibility with older clients and ignored.
type CartItemRequest struct {
	Slug     string           `json:"slug" binding:"required"`
	Quantity int              `json:"quantity" binding:"required"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// PlaceOrderRequest is the storefront checkout payload
type PlaceOrderRequest struct {
	Products        []CartItemRequest        `json:"products" binding:"required,min=1,dive"`
	ShippingAddress *valueobject.Address     `json:"shippingAddress" binding:"required"`
	BillingAddress  *valueobject.Address     `json:"billingAddress"`
	UserInfo        *valueobject.ContactInfo `json:"userInfo"`
	PaymentMethod   string                   `json:"paymentMethod"`
	ShippingMethod  string                   `json:"shippingMethod"`
	Notes           string                   `json:"notes" binding:"max=1000"`
	IsGift          bool                     `json:"isGift"`
}

// AdminUpdateOrderRequest changes admin-managed order fields. Force allows
// leaving a terminal status.
type AdminUpdateOrderRequest struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"trackingNumber" binding:"omitempty,max=100"`
	AdminNotes     *string `json:"adminNotes" binding:"omitempty,max=2000"`
	IsPaid         *bool   `json:"isPaid"`
	Force          bool    `json:"force"`
}

// ListOrdersParams are the admin listing options
type ListOrdersParams struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Search string `form:"search"`
	Status string `form:"status"`
}

// OrderItemResponse is one line of an order
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID              uuid.UUID                `json:"id"`
	OrderNumber     string                   `json:"orderNumber"`
	UserID          *uuid.UUID               `json:"userId,omitempty"`
	UserInfo        *valueobject.ContactInfo `json:"userInfo,omitempty"`
	Status          string                   `json:"status"`
	PaymentStatus   string                   `json:"paymentStatus"`
	PaymentMethod   string                   `json:"paymentMethod"`
	ShippingMethod  string                   `json:"shippingMethod"`
	Currency        string                   `json:"currency"`
	Subtotal        decimal.Decimal          `json:"subtotal"`
	ShippingFee     decimal.Decimal          `json:"shippingFee"`
	DiscountAmount  decimal.Decimal          `json:"discountAmount"`
	Total           decimal.Decimal          `json:"total"`
	ShippingAddress valueobject.Address      `json:"shippingAddress"`
	BillingAddress  *valueobject.Address     `json:"billingAddress,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	IsGift          bool                     `json:"isGift"`
	Items           []OrderItemResponse      `json:"items"`
	InvoiceID       string                   `json:"invoiceId,omitempty"`
	TrackingNumber  string                   `json:"trackingNumber,omitempty"`
	PaidAt          *time.Time               `json:"paidAt,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// AdminOrderResponse adds the fields only admins see
type AdminOrderResponse struct {
	OrderResponse
	AdminNotes  string `json:"adminNotes,omitempty"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
	Version     int    `json:"version"`
}

// PlaceOrderResponse is the checkout result
type PlaceOrderResponse struct {
	OrderResponse
	CheckoutLink string `json:"checkoutLink"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Slug:      item.Slug,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Currency:  item.Currency.String(),
			LineTotal: item.LineTotal,
		}
	}
	resp := OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   string(o.PaymentMethod),
		ShippingMethod:  string(o.ShippingMethod),
		Currency:        o.Currency.String(),
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		IsGift:          o.IsGift,
		Items:           items,
		InvoiceID:       o.InvoiceID,
		TrackingNumber:  o.TrackingNumber,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if !o.UserInfo.IsEmpty() {
		info := o.UserInfo
		resp.UserInfo = &info
	}
	if !o.BillingAddress.IsEmpty() {
		billing := o.BillingAddress
		resp.BillingAddress = &billing
	}
	return resp
}

// ToAdminOrderResponse converts a domain order for admins
func ToAdminOrderResponse(o *order.Order) AdminOrderResponse {
	return AdminOrderResponse{
		OrderResponse: ToOrderResponse(o),
		AdminNotes:    o.AdminNotes,
		CheckoutURL:   o.CheckoutURL,
		Version:       o.Version,
	}
}
