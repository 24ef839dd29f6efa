package cmd

import (
	"log/slog"

	httpadapter "orderlifecycle/internal/adapters/in/http"
	"orderlifecycle/internal/adapters/out/postgres"
	"orderlifecycle/internal/adapters/out/postgres/catalogrepo"
	"orderlifecycle/internal/adapters/out/postgres/couponrepo"
	"orderlifecycle/internal/adapters/out/postgres/loyaltyrepo"
	"orderlifecycle/internal/adapters/out/postgres/referralrepo"
	"orderlifecycle/internal/adapters/out/postgres/reportrepo"
	"orderlifecycle/internal/core/application/usecases/commands"
	"orderlifecycle/internal/core/application/usecases/queries"
	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/services"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/jobs"
)

type CompositionRoot struct {
	cfg           Config
	conn          *postgres.Connection
	uowFactory    *postgres.GormUnitOfWorkFactory
	notifications ports.NotificationChannel
	payments      ports.PaymentGateway
	clock         kernel.Clock
	logger        *slog.Logger
}

// NewCompositionRoot wires the application. payments may be nil, in which case
// card payments with a reference are rejected.
func NewCompositionRoot(
	cfg Config,
	conn *postgres.Connection,
	notifications ports.NotificationChannel,
	payments ports.PaymentGateway,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:           cfg,
		conn:          conn,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(conn),
		notifications: notifications,
		payments:      payments,
		clock:         kernel.SystemClock{},
		logger:        logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() (commands.CreateOrderCommandHandler, error) {
	calculator, err := services.NewPriceCalculator(c.cfg.DeliveryFee, c.cfg.TaxRate)
	if err != nil {
		return commands.CreateOrderCommandHandler{}, err
	}
	return commands.NewCreateOrderCommandHandler(
		c.uowFactoryFunc(),
		c.marketplaceResolver(),
		calculator,
		couponrepo.NewGormCouponEvaluator(c.conn.DB, c.clock),
		c.payments,
		c.sideEffects(),
		c.clock,
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uowFactoryFunc(), c.sideEffects(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactoryFunc(), c.sideEffects(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusesCommandHandler() (commands.AdvanceOrderStatusesCommandHandler, error) {
	policy, err := services.NewTransitionPolicy(c.cfg.DwellThresholds)
	if err != nil {
		return commands.AdvanceOrderStatusesCommandHandler{}, err
	}
	return commands.NewAdvanceOrderStatusesCommandHandler(
		c.orderUoWFactoryFunc(),
		policy,
		c.sideEffects(),
		postgres.ErrorClassifier{},
		c.clock,
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateActivateScheduledOrdersCommandHandler() commands.ActivateScheduledOrdersCommandHandler {
	return commands.NewActivateScheduledOrdersCommandHandler(
		c.orderUoWFactoryFunc(),
		c.marketplaceResolver(),
		c.payments,
		c.sideEffects(),
		postgres.ErrorClassifier{},
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.conn.DB)
}

// CreateJobManager builds the status walk and scheduled activation jobs.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	advance, err := c.CreateAdvanceOrderStatusesCommandHandler()
	if err != nil {
		return nil, err
	}
	activate := c.CreateActivateScheduledOrdersCommandHandler()

	runner := jobs.NewTickRunner(c.conn, postgres.ErrorClassifier{}, c.logger)
	statusJob, err := jobs.NewOrderStatusJob(&advance, c.cfg.StatusBatchSize, c.cfg.StatusTickInterval, runner, c.logger)
	if err != nil {
		return nil, err
	}
	scheduledJob := jobs.NewScheduledOrderJob(&activate, c.cfg.ScheduledTickInterval, runner, c.logger)

	return jobs.NewJobManager(statusJob, scheduledJob), nil
}

// CreateHTTPServer builds the order API.
func (c *CompositionRoot) CreateHTTPServer() (*httpadapter.Server, error) {
	create, err := c.CreateCreateOrderCommandHandler()
	if err != nil {
		return nil, err
	}
	cancel := c.CreateCancelOrderCommandHandler()
	update := c.CreateUpdateOrderStatusCommandHandler()
	active := c.CreateGetActiveOrdersQueryHandler()

	return httpadapter.NewServer(&create, &cancel, &update, active), nil
}

func (c *CompositionRoot) marketplaceResolver() *commands.MarketplaceResolver {
	return commands.NewMarketplaceResolver(catalogrepo.NewGormCatalogRepository(c.conn.DB))
}

func (c *CompositionRoot) sideEffects() commands.SideEffects {
	return commands.SideEffects{
		Loyalty:   loyaltyrepo.NewGormLoyaltyLedger(c.conn.DB),
		Referrals: referralrepo.NewGormReferralHook(c.conn.DB, c.clock),
		Notifier:  commands.NewOrderNotifier(c.notifications, c.clock),
		Support:   reportrepo.NewGormSupportReporter(c.conn.DB),
	}
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactoryFunc() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
