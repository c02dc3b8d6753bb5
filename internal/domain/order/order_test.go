package order

import (
	"strings"
	"testing"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() valueobject.Address {
	return valueobject.Address{
		FullName: "Ada Obi",
		Street:   "12 Marina Rd",
		City:     "Lagos",
		Country:  "NG",
	}
}

func testItems(t *testing.T) []Item {
	t.Helper()
	item, err := NewItem(uuid.New(), "logo-tee", "Logo Tee", 2,
		valueobject.NewMoneyUSD(decimal.RequireFromString("10.50")), decimal.RequireFromString("21"))
	require.NoError(t, err)
	return []Item{*item}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), Details{ShippingAddress: testAddress()},
		valueobject.NewMoneyUSD(decimal.RequireFromString("21")), testItems(t))
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with defaults", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		assert.Equal(t, PaymentMethodCard, o.PaymentMethod)
		assert.Equal(t, ShippingMethodStandard, o.ShippingMethod)
		assert.Equal(t, valueobject.USD, o.Currency)
		assert.Equal(t, "21.00", o.Total.StringFixed(2))
		assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
		require.Len(t, o.Items, 1)
		assert.Equal(t, o.ID, o.Items[0].OrderID)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), Details{ShippingAddress: testAddress()},
			valueobject.NewMoneyUSD(decimal.NewFromInt(1)), nil)
		assert.Error(t, err)
	})

	t.Run("requires positive total", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), Details{ShippingAddress: testAddress()},
			valueobject.NewMoneyUSD(decimal.Zero), testItems(t))
		assert.Error(t, err)
	})

	t.Run("requires shipping address", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), Details{}, valueobject.NewMoneyUSD(decimal.NewFromInt(1)), testItems(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects invalid contact email", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), Details{
			ShippingAddress: testAddress(),
			UserInfo:        valueobject.ContactInfo{FullName: "Ada", Email: "not-an-email"},
		}, valueobject.NewMoneyUSD(decimal.NewFromInt(1)), testItems(t))
		assert.Error(t, err)
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), Details{ShippingAddress: testAddress(), PaymentMethod: "barter"},
			valueobject.NewMoneyUSD(decimal.NewFromInt(1)), testItems(t))
		assert.Error(t, err)
		_, err = NewOrder(uuid.New(), Details{ShippingAddress: testAddress(), ShippingMethod: "drone"},
			valueobject.NewMoneyUSD(decimal.NewFromInt(1)), testItems(t))
		assert.Error(t, err)
	})
}

func TestNewItem(t *testing.T) {
	_, err := NewItem(uuid.New(), "tee", "Tee", 0, valueobject.NewMoneyUSD(decimal.NewFromInt(1)), decimal.Zero)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tee")

	_, err = NewItem(uuid.Nil, "tee", "Tee", 1, valueobject.NewMoneyUSD(decimal.NewFromInt(1)), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestOrder_TransitionTo(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.TransitionTo(StatusShipped))
	require.NoError(t, o.TransitionTo(StatusProcessing))
	require.NoError(t, o.TransitionTo(StatusCancelled))

	err := o.TransitionTo(StatusProcessing)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	assert.Error(t, o.TransitionTo("lost"))

	require.NoError(t, o.ForceStatus(StatusProcessing))
	assert.Equal(t, StatusProcessing, o.Status)
}

func TestOrder_ApplyPaymentOutcome(t *testing.T) {
	paid := PaymentOutcome{Status: StatusProcessing, PaymentStatus: PaymentStatusPaid, Method: PaymentMethodUSDT}
	failed := PaymentOutcome{Status: StatusCancelled, PaymentStatus: PaymentStatusFailed}
	refunded := PaymentOutcome{Status: StatusRefunded, PaymentStatus: PaymentStatusRefunded}

	t.Run("finished marks paid and processing", func(t *testing.T) {
		o := newTestOrder(t)
		assert.True(t, o.ApplyPaymentOutcome(paid))
		assert.Equal(t, StatusProcessing, o.Status)
		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
		assert.Equal(t, PaymentMethodUSDT, o.PaymentMethod)
		assert.NotNil(t, o.PaidAt)
	})

	t.Run("duplicate outcome is a no-op", func(t *testing.T) {
		o := newTestOrder(t)
		o.ApplyPaymentOutcome(paid)
		version := o.Version
		assert.False(t, o.ApplyPaymentOutcome(paid))
		assert.Equal(t, version, o.Version)
	})

	t.Run("late failure does not downgrade paid order", func(t *testing.T) {
		o := newTestOrder(t)
		o.ApplyPaymentOutcome(paid)
		assert.False(t, o.ApplyPaymentOutcome(failed))
		assert.Equal(t, StatusProcessing, o.Status)
		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	})

	t.Run("repeated payment keeps fulfilment progress", func(t *testing.T) {
		for _, status := range []Status{StatusShipped, StatusDelivered} {
			o := newTestOrder(t)
			o.MarkPaid(PaymentMethodBTC)
			require.NoError(t, o.ForceStatus(status))
			version := o.Version

			assert.False(t, o.ApplyPaymentOutcome(PaymentOutcome{
				Status: StatusProcessing, PaymentStatus: PaymentStatusPaid, Method: PaymentMethodBTC,
			}))
			assert.Equal(t, status, o.Status)
			assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
			assert.Equal(t, version, o.Version)
		}
	})

	t.Run("payment on an order already moved by an admin", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ForceStatus(StatusShipped))
		assert.True(t, o.ApplyPaymentOutcome(paid))
		assert.Equal(t, StatusShipped, o.Status)
		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	})

	t.Run("failure cancels pending order", func(t *testing.T) {
		o := newTestOrder(t)
		assert.True(t, o.ApplyPaymentOutcome(failed))
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, PaymentStatusFailed, o.PaymentStatus)
	})

	t.Run("refund after payment", func(t *testing.T) {
		o := newTestOrder(t)
		o.ApplyPaymentOutcome(paid)
		assert.True(t, o.ApplyPaymentOutcome(refunded))
		assert.Equal(t, StatusRefunded, o.Status)
		assert.Equal(t, PaymentStatusRefunded, o.PaymentStatus)

		assert.False(t, o.ApplyPaymentOutcome(paid))
	})
}

func TestOrder_MarkPaidAndUnpaid(t *testing.T) {
	o := newTestOrder(t)
	o.MarkPaid("")
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, PaymentMethodCard, o.PaymentMethod)

	o.MarkUnpaid()
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Nil(t, o.PaidAt)
}

func TestOrder_AttachInvoice(t *testing.T) {
	o := newTestOrder(t)
	assert.Error(t, o.AttachInvoice("", "https://pay"))
	require.NoError(t, o.AttachInvoice("inv_1", "https://nowpayments.io/payment/?iid=1"))
	assert.Equal(t, "inv_1", o.InvoiceID)
}
