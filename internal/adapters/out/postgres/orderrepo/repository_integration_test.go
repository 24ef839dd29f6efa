package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderlifecycle/internal/adapters/out/postgres/orderrepo"
	"orderlifecycle/internal/adapters/out/postgres/pgtest"
	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// OrderRepositoryIntegrationTestSuite verifies order persistence against PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.repository = orderrepo.NewGormOrderRepository(suite.database.DB)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()
	o := suite.immediateOrder(baseTime, 2500)

	suite.Require().NoError(suite.repository.Add(ctx, o))
	loaded, err := suite.repository.Get(ctx, o.ID())

	suite.Require().NoError(err)
	suite.Equal(o.ID(), loaded.ID())
	suite.Equal(o.UserID(), loaded.UserID())
	suite.Equal(order.Pending, loaded.Status())
	suite.Equal(o.Pricing(), loaded.Pricing())
	suite.Equal(o.Items(), loaded.Items())
	suite.Equal(baseTime, loaded.CreatedAt())
	suite.Equal(int64(1), loaded.Version())
	suite.Nil(loaded.CancellationFee())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ScheduledKeepsPayload() {
	ctx := context.Background()
	o := suite.scheduledOrder(baseTime.Add(2 * time.Hour))

	suite.Require().NoError(suite.repository.Add(ctx, o))
	loaded, err := suite.repository.Get(ctx, o.ID())

	suite.Require().NoError(err)
	suite.True(loaded.IsScheduled())
	suite.Equal(order.Scheduled, loaded.Status())
	suite.Require().NotNil(loaded.Payload())
	suite.Equal(*o.Payload(), *loaded.Payload())
	suite.Equal(baseTime.Add(2*time.Hour), *loaded.ScheduledFor())
	suite.Empty(loaded.Items())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsCancellationAndBumpsVersion() {
	ctx := context.Background()
	o := suite.immediateOrder(baseTime, 5000)
	suite.Require().NoError(suite.repository.Add(ctx, o))
	for o.Status() != order.OnTheWay {
		_, err := o.Advance(baseTime.Add(time.Minute))
		suite.Require().NoError(err)
	}
	_, err := o.Cancel("too slow", baseTime.Add(time.Hour))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, o))

	suite.Equal(int64(2), o.Version())
	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, loaded.Status())
	suite.Equal("too slow", loaded.CancellationReason())
	suite.Require().NotNil(loaded.CancellationFee())
	suite.Equal(kernel.Money(1000), *loaded.CancellationFee())
	suite.Equal(baseTime.Add(time.Hour), *loaded.CancelledAt())
	suite.Equal(int64(2), loaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionConflicts() {
	ctx := context.Background()
	o := suite.immediateOrder(baseTime, 1000)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	_, err = first.Advance(baseTime.Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.Cancel("", baseTime.Add(time.Minute))
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, loaded.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_UnknownOrder() {
	o := suite.immediateOrder(baseTime, 1000)

	err := suite.repository.Update(context.Background(), o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindInFlight_OldestFirstAndBounded() {
	ctx := context.Background()
	oldest := suite.immediateOrder(baseTime, 1000)
	middle := suite.immediateOrder(baseTime.Add(time.Minute), 1000)
	newest := suite.immediateOrder(baseTime.Add(2*time.Minute), 1000)
	delivered := suite.immediateOrder(baseTime.Add(-time.Hour), 1000)
	for delivered.Status() != order.Delivered {
		_, err := delivered.Advance(baseTime)
		suite.Require().NoError(err)
	}
	scheduled := suite.scheduledOrder(baseTime.Add(time.Hour))
	for _, o := range []*order.Order{newest, delivered, oldest, scheduled, middle} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	found, err := suite.repository.FindInFlight(ctx, 2)

	suite.Require().NoError(err)
	suite.Require().Len(found.Orders, 2)
	suite.Equal(oldest.ID(), found.Orders[0].ID())
	suite.Equal(middle.ID(), found.Orders[1].ID())
	suite.Empty(found.Unreadable)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindInFlight_SkipsUnreadableRows() {
	ctx := context.Background()
	broken := suite.immediateOrder(baseTime, 1000)
	middle := suite.immediateOrder(baseTime.Add(time.Minute), 1000)
	newest := suite.immediateOrder(baseTime.Add(2*time.Minute), 1000)
	for _, o := range []*order.Order{broken, middle, newest} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	suite.corrupt(broken, "items", `[{"productId":"","quantity":0}]`)

	found, err := suite.repository.FindInFlight(ctx, 2)

	suite.Require().NoError(err)
	suite.Require().Len(found.Orders, 2)
	suite.Equal(middle.ID(), found.Orders[0].ID())
	suite.Equal(newest.ID(), found.Orders[1].ID())
	suite.Require().Len(found.Unreadable, 1)
	suite.Equal(broken.ID(), found.Unreadable[0].ID)
	suite.Error(found.Unreadable[0].Err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindDueScheduled() {
	ctx := context.Background()
	due := suite.scheduledOrder(baseTime.Add(time.Hour))
	later := suite.scheduledOrder(baseTime.Add(3 * time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, due))
	suite.Require().NoError(suite.repository.Add(ctx, later))

	found, err := suite.repository.FindDueScheduled(ctx, baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(found.Orders, 1)
	suite.Equal(due.ID(), found.Orders[0].ID())

	found, err = suite.repository.FindDueScheduled(ctx, baseTime.Add(30*time.Minute))
	suite.Require().NoError(err)
	suite.Empty(found.Orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindDueScheduled_ReportsUnreadableAndAbandons() {
	ctx := context.Background()
	broken := suite.scheduledOrder(baseTime.Add(time.Hour))
	healthy := suite.scheduledOrder(baseTime.Add(time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, broken))
	suite.Require().NoError(suite.repository.Add(ctx, healthy))
	suite.Require().NoError(suite.database.DB.Exec(
		"UPDATE orders SET scheduled_payload = NULL WHERE id = ?", broken.ID().Bytes()).Error)

	found, err := suite.repository.FindDueScheduled(ctx, baseTime.Add(time.Hour))

	suite.Require().NoError(err)
	suite.Require().Len(found.Orders, 1)
	suite.Equal(healthy.ID(), found.Orders[0].ID())
	suite.Require().Len(found.Unreadable, 1)
	suite.Equal(broken.ID(), found.Unreadable[0].ID)

	at := baseTime.Add(2 * time.Hour)
	suite.Require().NoError(suite.repository.AbandonScheduled(ctx, broken.ID(), "scheduled activation failed: bad payload", at))

	var row orderrepo.OrderDTO
	suite.Require().NoError(suite.database.DB.First(&row, "id = ?", broken.ID().Bytes()).Error)
	suite.Equal(order.Cancelled.String(), row.Status)
	suite.Equal("scheduled activation failed: bad payload", row.CancellationReason)
	suite.Require().NotNil(row.CancelledAt)
	suite.Equal(at, row.CancelledAt.UTC())
	suite.Nil(row.CancellationFee)
	suite.Equal(int64(2), row.Version)

	found, err = suite.repository.FindDueScheduled(ctx, at)
	suite.Require().NoError(err)
	suite.Len(found.Orders, 1)
	suite.Empty(found.Unreadable)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAbandonScheduled_LeavesActivatedOrdersAlone() {
	ctx := context.Background()
	o := suite.immediateOrder(baseTime, 1000)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(suite.repository.AbandonScheduled(ctx, o.ID(), "late", baseTime.Add(time.Hour)))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, loaded.Status())
	suite.Equal(int64(1), loaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) corrupt(o *order.Order, column, jsonValue string) {
	suite.Require().NoError(suite.database.DB.Exec(
		"UPDATE orders SET "+column+" = ?::jsonb WHERE id = ?", jsonValue, o.ID().Bytes()).Error)
}

func (suite *OrderRepositoryIntegrationTestSuite) immediateOrder(createdAt time.Time, total kernel.Money) *order.Order {
	item, err := order.NewLineItem("burger", "Burger", 1, total)
	suite.Require().NoError(err)
	o, err := order.NewImmediateOrder(order.Draft{
		ID:              kernel.NewUUID(),
		UserID:          kernel.NewUUID(),
		RestaurantID:    "rest-1",
		DeliveryAddress: "1 Main Street",
		PaymentMethod:   order.PaymentCash,
		Pricing:         order.Pricing{Subtotal: total, Total: total},
		CreatedAt:       createdAt,
	}, []order.LineItem{item})
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) scheduledOrder(scheduledFor time.Time) *order.Order {
	o, err := order.NewScheduledOrder(order.Draft{
		ID:              kernel.NewUUID(),
		UserID:          kernel.NewUUID(),
		RestaurantID:    "marketplace",
		DeliveryAddress: "1 Main Street",
		PaymentMethod:   order.PaymentCard,
		Pricing:         order.Pricing{Subtotal: 1000, Total: 1000},
		CreatedAt:       baseTime,
	}, scheduledFor, order.ScheduledPayload{
		Items:            []order.RequestedItem{{ProductID: "sku-1", Name: "Candle", Quantity: 1, UnitPrice: 1000}},
		DeliveryAddress:  "1 Main Street",
		PaymentMethod:    order.PaymentCard,
		PaymentReference: "pi_1",
	})
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
