package models

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for a provider payment record.
type PaymentModel struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID              `gorm:"type:uuid;not null"`
	OrderID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	Provider      string                 `gorm:"type:varchar(30);not null"`
	TransactionID string                 `gorm:"type:varchar(100);not null;uniqueIndex"`
	Amount        decimal.Decimal        `gorm:"type:decimal(24,8);not null"`
	Currency      string                 `gorm:"type:varchar(20)"`
	Method        order.PaymentMethod    `gorm:"type:varchar(30)"`
	Status        order.PaymentStatus    `gorm:"type:varchar(30);not null"`
	ProviderState payment.ProviderStatus `gorm:"type:varchar(30)"`
	CreatedAt     time.Time              `gorm:"not null"`
	UpdatedAt     time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		ID:            m.ID,
		TenantID:      m.TenantID,
		OrderID:       m.OrderID,
		Provider:      m.Provider,
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Method:        m.Method,
		Status:        m.Status,
		ProviderState: m.ProviderState,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID,
		TenantID:      p.TenantID,
		OrderID:       p.OrderID,
		Provider:      p.Provider,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		ProviderState: p.ProviderState,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
