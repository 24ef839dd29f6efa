package commands_test

import (
	"fmt"
	"testing"
	"time"

	"orderlifecycle/internal/core/application/usecases/commands"
	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/domain/services"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type advanceFixture struct {
	repo    *MockOrderRepository
	uow     *MockUoW
	factory *MockOrderUoWFactory
	channel *recordingChannel
	clock   *kernel.FixedClock
	handler commands.AdvanceOrderStatusesCommandHandler
}

func newAdvanceFixture(t *testing.T) *advanceFixture {
	t.Helper()
	policy, err := services.NewTransitionPolicy(services.DwellThresholds{
		order.Pending:   time.Minute,
		order.Confirmed: 2 * time.Minute,
		order.Preparing: 3 * time.Minute,
		order.Ready:     4 * time.Minute,
		order.OnTheWay:  5 * time.Minute,
	})
	require.NoError(t, err)

	f := &advanceFixture{
		repo:    new(MockOrderRepository),
		uow:     new(MockUoW),
		factory: new(MockOrderUoWFactory),
		channel: &recordingChannel{},
		clock:   kernel.NewFixedClock(now),
	}
	f.handler = commands.NewAdvanceOrderStatusesCommandHandler(
		f.factory,
		policy,
		commands.SideEffects{Notifier: commands.NewOrderNotifier(f.channel, f.clock)},
		errorClassifier{transient: errConnLost},
		f.clock,
		discardLogger(),
	)
	f.factory.On("Create").Return(f.uow)
	f.uow.On("OrderRepository").Return(f.repo)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	return f
}

func tickCommand(t *testing.T) commands.AdvanceOrderStatusesCommand {
	t.Helper()
	cmd, err := commands.NewAdvanceOrderStatusesCommand(commands.DefaultStatusBatchSize)
	require.NoError(t, err)
	return cmd
}

func TestNewAdvanceOrderStatusesCommand_InvalidBatch(t *testing.T) {
	_, err := commands.NewAdvanceOrderStatusesCommand(0)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestAdvanceOrderStatusesCommandHandler_Handle_AdvancesDueOrdersOnly(t *testing.T) {
	f := newAdvanceFixture(t)
	due := restoreOrder(t, kernel.NewUUID(), order.Pending, 1000, now.Add(-90*time.Second))
	notDue := restoreOrder(t, kernel.NewUUID(), order.Confirmed, 1000, now.Add(-30*time.Second))
	f.repo.On("FindInFlight", mock.Anything, commands.DefaultStatusBatchSize).
		Return(batchOf(due, notDue), nil).Once()
	f.repo.On("Update", mock.Anything, due).Return(nil).Once()

	err := f.handler.Handle(t.Context(), tickCommand(t))

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, due.Status(), "never skips past the next edge")
	assert.Equal(t, now, due.UpdatedAt())
	assert.Equal(t, order.Confirmed, notDue.Status())
	assert.Equal(t, []string{ports.EventOrderUpdate, ports.EventStatusChange}, f.channel.names())
	assert.Equal(t, order.Confirmed.Message(), f.channel.statusChanges()[0].Message)
	f.repo.AssertExpectations(t)
}

func TestAdvanceOrderStatusesCommandHandler_Handle_UnreadableRowsDoNotBlockBatch(t *testing.T) {
	f := newAdvanceFixture(t)
	due := restoreOrder(t, kernel.NewUUID(), order.Pending, 1000, now.Add(-90*time.Second))
	batch := batchOf(due)
	batch.Unreadable = []ports.UnreadableOrder{{ID: kernel.NewUUID(), Err: errs.NewValueIsInvalidError("status")}}
	f.repo.On("FindInFlight", mock.Anything, mock.Anything).Return(batch, nil).Once()
	f.repo.On("Update", mock.Anything, due).Return(nil).Once()

	err := f.handler.Handle(t.Context(), tickCommand(t))

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, due.Status())
	f.repo.AssertExpectations(t)
}

func TestAdvanceOrderStatusesCommandHandler_Handle_DeeplyOverdueMovesOneEdge(t *testing.T) {
	f := newAdvanceFixture(t)
	o := restoreOrder(t, kernel.NewUUID(), order.Pending, 1000, now.Add(-24*time.Hour))
	f.repo.On("FindInFlight", mock.Anything, mock.Anything).Return(batchOf(o), nil)
	f.repo.On("Update", mock.Anything, o).Return(nil).Once()

	require.NoError(t, f.handler.Handle(t.Context(), tickCommand(t)))
	require.NoError(t, f.handler.Handle(t.Context(), tickCommand(t)))

	assert.Equal(t, order.Confirmed, o.Status(), "second tick sees a fresh updatedAt")
	f.repo.AssertNumberOfCalls(t, "Update", 1)

	f.clock.Advance(2 * time.Minute)
	f.repo.On("Update", mock.Anything, o).Return(nil).Once()
	require.NoError(t, f.handler.Handle(t.Context(), tickCommand(t)))

	assert.Equal(t, order.Preparing, o.Status())
}

func TestAdvanceOrderStatusesCommandHandler_Handle_TerminalOrdersAreNoOps(t *testing.T) {
	f := newAdvanceFixture(t)
	delivered := restoreOrder(t, kernel.NewUUID(), order.Delivered, 1000, now.Add(-time.Hour))
	cancelled := restoreOrder(t, kernel.NewUUID(), order.Cancelled, 1000, now.Add(-time.Hour))
	f.repo.On("FindInFlight", mock.Anything, mock.Anything).Return(batchOf(delivered, cancelled), nil).Once()

	err := f.handler.Handle(t.Context(), tickCommand(t))

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, delivered.Status())
	assert.Equal(t, order.Cancelled, cancelled.Status())
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, f.channel.events)
}

func TestAdvanceOrderStatusesCommandHandler_Handle_PerOrderFailureContinues(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"version conflict", errs.NewVersionConflictError("order", "x", 1)},
		{"other error", errStorage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAdvanceFixture(t)
			first := restoreOrder(t, kernel.NewUUID(), order.Ready, 1000, now.Add(-time.Hour))
			second := restoreOrder(t, kernel.NewUUID(), order.OnTheWay, 1000, now.Add(-time.Hour))
			f.repo.On("FindInFlight", mock.Anything, mock.Anything).Return(batchOf(first, second), nil).Once()
			f.repo.On("Update", mock.Anything, first).Return(tc.err).Once()
			f.repo.On("Update", mock.Anything, second).Return(nil).Once()

			err := f.handler.Handle(t.Context(), tickCommand(t))

			require.NoError(t, err)
			assert.Equal(t, order.Delivered, second.Status())
			assert.Len(t, f.channel.events, 2, "only the persisted transition is published")
			f.repo.AssertExpectations(t)
		})
	}
}

func TestAdvanceOrderStatusesCommandHandler_Handle_TransientErrorAbortsTick(t *testing.T) {
	f := newAdvanceFixture(t)
	first := restoreOrder(t, kernel.NewUUID(), order.Pending, 1000, now.Add(-time.Hour))
	second := restoreOrder(t, kernel.NewUUID(), order.Pending, 1000, now.Add(-time.Hour))
	f.repo.On("FindInFlight", mock.Anything, mock.Anything).Return(batchOf(first, second), nil).Once()
	f.repo.On("Update", mock.Anything, first).Return(fmt.Errorf("update: %w", errConnLost)).Once()

	err := f.handler.Handle(t.Context(), tickCommand(t))

	require.ErrorIs(t, err, errConnLost)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, second)
	assert.Equal(t, order.Pending, second.Status())
}

func TestAdvanceOrderStatusesCommandHandler_Handle_FetchError(t *testing.T) {
	f := newAdvanceFixture(t)
	f.repo.On("FindInFlight", mock.Anything, mock.Anything).Return(ports.OrderBatch{}, errStorage).Once()

	err := f.handler.Handle(t.Context(), tickCommand(t))

	require.ErrorIs(t, err, errStorage)
}
