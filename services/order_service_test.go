package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/services"
)

func TestGetUserOrdersPaginationMeta(t *testing.T) {
	identity := testIdentity()
	orders := newMockOrderRepo()
	for i := 0; i < 5; i++ {
		orders.committed["cs_"+string(rune('a'+i))] = []models.OrderRecord{
			{UserID: identity.UserID, SessionID: "cs_" + string(rune('a'+i)), TotalAmount: dec("10.00")},
		}
	}
	svc := services.NewOrderService(orders, zap.NewNop())

	resp, err := svc.GetUserOrders(context.Background(), identity, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), resp.Meta.TotalOrders)
	assert.Equal(t, int64(3), resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasMore)

	resp, err = svc.GetUserOrders(context.Background(), identity, 3, 2)
	assert.NoError(t, err)
	assert.False(t, resp.Meta.HasMore)
}

func TestGetUserOrdersEmptyHistory(t *testing.T) {
	identity := testIdentity()
	svc := services.NewOrderService(newMockOrderRepo(), zap.NewNop())

	resp, err := svc.GetUserOrders(context.Background(), identity, 1, 10)
	assert.NoError(t, err)
	assert.Empty(t, resp.Orders)
	assert.Equal(t, int64(0), resp.Meta.TotalOrders)
	assert.False(t, resp.Meta.HasMore)
}
