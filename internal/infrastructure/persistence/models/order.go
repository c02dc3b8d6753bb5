package models

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber     string                  `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID          *uuid.UUID              `gorm:"type:uuid"`
	UserInfo        valueobject.ContactInfo `gorm:"type:jsonb"`
	Status          order.Status            `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentStatus   order.PaymentStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod   order.PaymentMethod     `gorm:"type:varchar(30);not null;default:'card'"`
	ShippingMethod  order.ShippingMethod    `gorm:"type:varchar(20);not null;default:'standard'"`
	Currency        valueobject.Currency    `gorm:"type:char(3);not null"`
	Subtotal        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	ShippingFee     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	DiscountAmount  decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Total           decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	ShippingAddress valueobject.Address     `gorm:"type:jsonb;not null"`
	BillingAddress  valueobject.Address     `gorm:"type:jsonb"`
	Notes           string                  `gorm:"type:text"`
	IsGift          bool                    `gorm:"not null;default:false"`
	InvoiceID       string                  `gorm:"type:varchar(64)"`
	CheckoutURL     string                  `gorm:"type:text"`
	TrackingNumber  string                  `gorm:"type:varchar(100)"`
	AdminNotes      string                  `gorm:"type:text"`
	PaidAt          *time.Time
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		UserID:              m.UserID,
		UserInfo:            m.UserInfo,
		Status:              m.Status,
		PaymentStatus:       m.PaymentStatus,
		PaymentMethod:       m.PaymentMethod,
		ShippingMethod:      m.ShippingMethod,
		Currency:            m.Currency,
		Subtotal:            m.Subtotal,
		ShippingFee:         m.ShippingFee,
		DiscountAmount:      m.DiscountAmount,
		Total:               m.Total,
		ShippingAddress:     m.ShippingAddress,
		BillingAddress:      m.BillingAddress,
		Notes:               m.Notes,
		IsGift:              m.IsGift,
		InvoiceID:           m.InvoiceID,
		CheckoutURL:         m.CheckoutURL,
		TrackingNumber:      m.TrackingNumber,
		AdminNotes:          m.AdminNotes,
		PaidAt:              m.PaidAt,
		Items:               make([]order.Item, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.UserID = o.UserID
	m.UserInfo = o.UserInfo
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.ShippingMethod = o.ShippingMethod
	m.Currency = o.Currency
	m.Subtotal = o.Subtotal
	m.ShippingFee = o.ShippingFee
	m.DiscountAmount = o.DiscountAmount
	m.Total = o.Total
	m.ShippingAddress = o.ShippingAddress
	m.BillingAddress = o.BillingAddress
	m.Notes = o.Notes
	m.IsGift = o.IsGift
	m.InvoiceID = o.InvoiceID
	m.CheckoutURL = o.CheckoutURL
	m.TrackingNumber = o.TrackingNumber
	m.AdminNotes = o.AdminNotes
	m.PaidAt = o.PaidAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID            `gorm:"type:uuid"`
	Slug      string               `gorm:"type:varchar(50);not null"`
	Name      string               `gorm:"type:varchar(200);not null"`
	Quantity  int                  `gorm:"not null"`
	UnitPrice decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency  valueobject.Currency `gorm:"type:char(3);not null"`
	LineTotal decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order line.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Slug:      m.Slug,
		Name:      m.Name,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Currency:  m.Currency,
		LineTotal: m.LineTotal,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain order line.
func (m *OrderItemModel) FromDomain(i *order.Item) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.Slug = i.Slug
	m.Name = i.Name
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.Currency = i.Currency
	m.LineTotal = i.LineTotal
	m.CreatedAt = i.CreatedAt
}
