package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaymentRepository_UpsertByTransactionID(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormPaymentRepository(gormDB)

	now := time.Now()
	p := &payment.Payment{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		OrderID:       uuid.New(),
		Provider:      payment.ProviderNowPayments,
		TransactionID: "5077125051",
		Amount:        decimal.RequireFromString("0.00042"),
		Currency:      "btc",
		Method:        order.PaymentMethodBTC,
		Status:        order.PaymentStatusPaid,
		ProviderState: payment.ProviderStatusFinished,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectExec(`INSERT INTO "payments" .* ON CONFLICT \("transaction_id"\) DO UPDATE SET "amount"="excluded"."amount"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertByTransactionID(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPaymentRepository_FindByOrderID(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormPaymentRepository(gormDB)

	tenantID, orderID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE tenant_id = \$1 AND order_id = \$2 ORDER BY created_at ASC`).
		WithArgs(tenantID, orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "order_id", "transaction_id", "amount", "status"}).
			AddRow(uuid.New().String(), tenantID.String(), orderID.String(), "tx-1", "12.5", "paid"))

	payments, err := repo.FindByOrderID(context.Background(), tenantID, orderID)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "tx-1", payments[0].TransactionID)
	assert.Equal(t, order.PaymentStatusPaid, payments[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
