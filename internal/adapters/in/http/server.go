package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"orderlifecycle/internal/core/application/usecases/commands"
	"orderlifecycle/internal/core/application/usecases/queries"
	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// UserIDHeader carries the authenticated caller's id, set by the gateway in front of the service.
const UserIDHeader = "X-User-ID"

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}

	OrderStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}

	ActiveOrdersReader interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
	}
)

// Server handles HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  OrderCreator
	cancelOrderHandler  OrderCanceller
	updateStatusHandler OrderStatusUpdater

	// Query handlers
	getActiveOrdersHandler ActiveOrdersReader
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler OrderCreator,
	cancelOrderHandler OrderCanceller,
	updateStatusHandler OrderStatusUpdater,
	getActiveOrdersHandler ActiveOrdersReader,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		cancelOrderHandler:     cancelOrderHandler,
		updateStatusHandler:    updateStatusHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
	}
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type newOrder struct {
	RestaurantID     string                `json:"restaurantId"`
	Items            []order.RequestedItem `json:"items"`
	DeliveryAddress  string                `json:"deliveryAddress"`
	PaymentMethod    string                `json:"paymentMethod"`
	PaymentReference string                `json:"paymentReference"`
	CouponCode       string                `json:"couponCode"`
	Tip              int64                 `json:"tip"`
	ScheduledFor     *time.Time            `json:"scheduledFor"`
}

type cancellation struct {
	Reason string `json:"reason"`
}

type statusUpdate struct {
	Status string `json:"status"`
}

// ActiveOrder is one entry of GET /api/v1/orders/active. Total is in major units.
type ActiveOrder struct {
	ID           string       `json:"id"`
	RestaurantID string       `json:"restaurantId"`
	Status       order.Status `json:"status"`
	Total        string       `json:"total"`
	IsScheduled  bool         `json:"isScheduled"`
	ScheduledFor *time.Time   `json:"scheduledFor,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CreateOrder handles POST /api/v1/orders - places an immediate or scheduled order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body newOrder
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewCreateOrderCommand(userID, commands.CreateOrderRequest{
		RestaurantID:     body.RestaurantID,
		Items:            body.Items,
		DeliveryAddress:  body.DeliveryAddress,
		PaymentMethod:    order.PaymentMethod(strings.ToLower(strings.TrimSpace(body.PaymentMethod))),
		PaymentReference: body.PaymentReference,
		CouponCode:       body.CouponCode,
		Tip:              body.Tip,
		ScheduledFor:     body.ScheduledFor,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, created.Snapshot())
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	userID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body cancellation
	if ctx.Request().ContentLength != 0 {
		if err = ctx.Bind(&body); err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid request body",
			})
		}
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, userID, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, cancelled.Snapshot())
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	userID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body statusUpdate
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, userID, body.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, updated.Snapshot())
}

// GetActiveOrders handles GET /api/v1/orders/active - the caller's undelivered orders.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetActiveOrdersQuery(userID)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]ActiveOrder, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrder{
			ID:           o.ID.String(),
			RestaurantID: o.RestaurantID,
			Status:       o.Status,
			Total:        o.Total.String(),
			IsScheduled:  o.IsScheduled,
			ScheduledFor: o.ScheduledFor,
			CreatedAt:    o.CreatedAt,
			UpdatedAt:    o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func callerID(ctx echo.Context) (kernel.UUID, error) {
	raw := strings.TrimSpace(ctx.Request().Header.Get(UserIDHeader))
	if raw == "" {
		return kernel.UUID{}, errMissingCaller
	}
	userID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errMissingCaller
	}
	return userID, nil
}

func callerAndOrder(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return userID, orderID, nil
}
