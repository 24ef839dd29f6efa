package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"orderlifecycle/internal/core/application/usecases/commands"
	"orderlifecycle/internal/core/domain/model/catalog"
	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now         = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	errStorage  = errors.New("storage failure")
	errConnLost = errors.New("connection lost")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindInFlight(ctx context.Context, limit int) (ports.OrderBatch, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(ports.OrderBatch), args.Error(1)
}

func (m *MockOrderRepository) FindDueScheduled(ctx context.Context, at time.Time) (ports.OrderBatch, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(ports.OrderBatch), args.Error(1)
}

func (m *MockOrderRepository) AbandonScheduled(ctx context.Context, id kernel.UUID, reason string, at time.Time) error {
	args := m.Called(ctx, id, reason, at)
	return args.Error(0)
}

func batchOf(orders ...*order.Order) ports.OrderBatch {
	return ports.OrderBatch{Orders: orders}
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) ConsumePendingPenalty(ctx context.Context, userID kernel.UUID) (kernel.Money, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func (m *MockUserRepository) AccruePendingPenalty(ctx context.Context, userID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) GetPendingPenalty(ctx context.Context, userID kernel.UUID) (kernel.Money, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kernel.Money), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) GetRestaurant(ctx context.Context, id string) (catalog.Restaurant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Restaurant), args.Error(1)
}

func (m *MockCatalogRepository) EnsureRestaurant(ctx context.Context, r catalog.Restaurant) (catalog.Restaurant, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(catalog.Restaurant), args.Error(1)
}

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Product), args.Error(1)
}

func (m *MockCatalogRepository) EnsureProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(catalog.Product), args.Error(1)
}

// MockUoW satisfies both commands.UoW and commands.OrderUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Confirm(ctx context.Context, reference string) (ports.PaymentResult, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(ports.PaymentResult), args.Error(1)
}

type MockDiscountEvaluator struct{ mock.Mock }

func (m *MockDiscountEvaluator) Validate(
	ctx context.Context,
	code string,
	userID kernel.UUID,
	subtotal kernel.Money,
	restaurantID string,
) (ports.Discount, error) {
	args := m.Called(ctx, code, userID, subtotal, restaurantID)
	return args.Get(0).(ports.Discount), args.Error(1)
}

type MockLoyaltyLedger struct{ mock.Mock }

func (m *MockLoyaltyLedger) AddPoints(ctx context.Context, userID kernel.UUID, points int64, reason string, orderID kernel.UUID) error {
	args := m.Called(ctx, userID, points, reason, orderID)
	return args.Error(0)
}

type MockReferralHook struct{ mock.Mock }

func (m *MockReferralHook) CompleteFirstOrder(ctx context.Context, userID, orderID kernel.UUID) error {
	args := m.Called(ctx, userID, orderID)
	return args.Error(0)
}

type MockSupportReporter struct{ mock.Mock }

func (m *MockSupportReporter) ReportCancellation(ctx context.Context, report ports.CancellationReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type publishedEvent struct {
	OrderID kernel.UUID
	Event   string
	Payload any
}

// recordingChannel keeps every published event; err is returned from each Publish.
type recordingChannel struct {
	events []publishedEvent
	err    error
}

func (c *recordingChannel) Publish(_ context.Context, orderID kernel.UUID, event string, payload any) error {
	c.events = append(c.events, publishedEvent{OrderID: orderID, Event: event, Payload: payload})
	return c.err
}

func (c *recordingChannel) names() []string {
	names := make([]string, 0, len(c.events))
	for _, e := range c.events {
		names = append(names, e.Event)
	}
	return names
}

func (c *recordingChannel) statusChanges() []ports.StatusChange {
	var changes []ports.StatusChange
	for _, e := range c.events {
		if sc, ok := e.Payload.(ports.StatusChange); ok {
			changes = append(changes, sc)
		}
	}
	return changes
}

type errorClassifier struct{ transient error }

func (c errorClassifier) IsTransient(err error) bool {
	return c.transient != nil && errors.Is(err, c.transient)
}

// restoreOrder builds a persisted-looking immediate order in the given status whose
// current state was entered at updatedAt.
func restoreOrder(t *testing.T, userID kernel.UUID, status order.Status, total kernel.Money, updatedAt time.Time) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("burger", "Burger", 1, total)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreState{
		ID:            kernel.NewUUID(),
		UserID:        userID,
		RestaurantID:  "rest-1",
		Items:         []order.LineItem{item},
		Status:        status,
		Pricing:       order.Pricing{Subtotal: total, Total: total},
		PaymentMethod: order.PaymentCash,
		CreatedAt:     updatedAt,
		UpdatedAt:     updatedAt,
		Version:       1,
	})
	require.NoError(t, err)
	return o
}

// restoreScheduledOrder builds a due scheduled order with payload.
func restoreScheduledOrder(t *testing.T, restaurantID string, payload order.ScheduledPayload, scheduledFor time.Time) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.RestoreState{
		ID:            kernel.NewUUID(),
		UserID:        kernel.NewUUID(),
		RestaurantID:  restaurantID,
		Status:        order.Scheduled,
		Pricing:       order.Pricing{Subtotal: 1000, Total: 1000},
		PaymentMethod: payload.PaymentMethod,
		IsScheduled:   true,
		ScheduledFor:  &scheduledFor,
		Payload:       &payload,
		CreatedAt:     scheduledFor.Add(-24 * time.Hour),
		UpdatedAt:     scheduledFor.Add(-24 * time.Hour),
		Version:       1,
	})
	require.NoError(t, err)
	return o
}
