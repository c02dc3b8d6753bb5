package models

import (
	"testing"

	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductModel_RoundTrip(t *testing.T) {
	p, err := catalog.NewProduct(uuid.New(), "Logo Tee", "logo-tee", "TEE-1", catalog.CategoryClothing,
		decimal.NewFromInt(25), decimal.NewFromInt(9))
	require.NoError(t, err)
	require.NoError(t, p.SetSizes([]catalog.Size{catalog.SizeS, catalog.SizeM}))
	p.Attributes = map[string]any{"fabric": "cotton"}

	m := ProductModelFromDomain(p)
	assert.Equal(t, []string{"S", "M"}, []string(m.Sizes))
	assert.NotNil(t, m.Tags)

	back := m.ToDomain()
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.TenantID, back.TenantID)
	assert.Equal(t, p.Version, back.Version)
	assert.Equal(t, p.Sizes, back.Sizes)
	assert.True(t, p.SalePrice.Equal(back.SalePrice))
	assert.Equal(t, "cotton", back.Attributes["fabric"])
}

func TestOrderModel_RoundTrip(t *testing.T) {
	item, err := order.NewItem(uuid.New(), "logo-tee", "Logo Tee", 1,
		valueobject.NewMoneyUSD(decimal.NewFromInt(25)), decimal.NewFromInt(25))
	require.NoError(t, err)
	o, err := order.NewOrder(uuid.New(), order.Details{
		ShippingAddress: valueobject.Address{FullName: "Ada", Street: "1 Rd", City: "Lagos", Country: "NG"},
	}, valueobject.NewMoneyUSD(decimal.NewFromInt(25)), []order.Item{*item})
	require.NoError(t, err)

	m := OrderModelFromDomain(o)
	require.Len(t, m.Items, 1)
	assert.Equal(t, o.ID, m.Items[0].OrderID)

	back := m.ToDomain()
	assert.Equal(t, o.OrderNumber, back.OrderNumber)
	assert.Equal(t, o.ShippingAddress, back.ShippingAddress)
	require.Len(t, back.Items, 1)
	assert.Equal(t, "logo-tee", back.Items[0].Slug)
}

func TestJSONMap(t *testing.T) {
	var empty JSONMap
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var m JSONMap
	require.NoError(t, m.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, float64(1), m["a"])

	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)

	assert.Error(t, m.Scan(42))
}
