package orderrepo

import (
	"testing"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingDTO(t *testing.T) OrderDTO {
	t.Helper()
	item, err := order.NewLineItem("burger", "Burger", 1, 1000)
	require.NoError(t, err)
	o, err := order.NewImmediateOrder(order.Draft{
		ID:            kernel.NewUUID(),
		UserID:        kernel.NewUUID(),
		RestaurantID:  "rest-1",
		PaymentMethod: order.PaymentCash,
		Pricing:       order.Pricing{Subtotal: 1000, Total: 1000},
		CreatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}, []order.LineItem{item})
	require.NoError(t, err)
	dto, err := fromDomain(o)
	require.NoError(t, err)
	return dto
}

func scheduledDTO(t *testing.T) OrderDTO {
	t.Helper()
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o, err := order.NewScheduledOrder(order.Draft{
		ID:            kernel.NewUUID(),
		UserID:        kernel.NewUUID(),
		RestaurantID:  "marketplace",
		PaymentMethod: order.PaymentCash,
		Pricing:       order.Pricing{Subtotal: 1000, Total: 1000},
		CreatedAt:     createdAt,
	}, createdAt.Add(time.Hour), order.ScheduledPayload{
		Items:         []order.RequestedItem{{ProductID: "sku-1", Name: "Candle", Quantity: 1, UnitPrice: 1000}},
		PaymentMethod: order.PaymentCash,
	})
	require.NoError(t, err)
	dto, err := fromDomain(o)
	require.NoError(t, err)
	return dto
}

func TestCollect_KeepsHealthyRowsNextToBrokenOnes(t *testing.T) {
	broken := scheduledDTO(t)
	broken.ScheduledPayload = nil
	healthy := pendingDTO(t)

	var batch ports.OrderBatch
	for _, dto := range []OrderDTO{broken, healthy} {
		collect(&batch, dto)
	}

	require.Len(t, batch.Orders, 1)
	assert.Equal(t, healthy.ID, batch.Orders[0].ID().Bytes())
	require.Len(t, batch.Unreadable, 1)
	assert.Equal(t, broken.ID, batch.Unreadable[0].ID.Bytes())
	assert.ErrorContains(t, batch.Unreadable[0].Err, "scheduledPayload")
}

func TestCollect_UnknownStatusIsUnreadable(t *testing.T) {
	dto := pendingDTO(t)
	dto.Status = "lost_in_transit"

	var batch ports.OrderBatch
	collect(&batch, dto)

	assert.Empty(t, batch.Orders)
	require.Len(t, batch.Unreadable, 1)
	assert.Equal(t, dto.ID, batch.Unreadable[0].ID.Bytes())
}
