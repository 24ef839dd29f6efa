package redisnotify

import (
	"context"
	"errors"
	"testing"

	"orderlifecycle/internal/core/domain/model/kernel"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	args := m.Called(ctx, channel, message)
	return args.Get(0).(*redis.IntCmd)
}

func TestNewPublisher_RequiresClient(t *testing.T) {
	_, err := NewPublisher(nil)

	require.Error(t, err)
}

func TestPublisher_Publish_SendsEnvelopeToOrderChannel(t *testing.T) {
	client := &mockClient{}
	orderID := kernel.NewUUID()
	client.On("Publish", mock.Anything, "orders:"+orderID.String(), mock.MatchedBy(func(message interface{}) bool {
		data, ok := message.([]byte)
		return ok && assert.JSONEq(t, `{"event":"status_change","data":{"status":"ready"}}`, string(data))
	})).Return(redis.NewIntResult(1, nil)).Once()
	publisher, err := NewPublisher(client)
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), orderID, "status_change", map[string]string{"status": "ready"})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPublisher_Publish_NoSubscribersIsNotAnError(t *testing.T) {
	client := &mockClient{}
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(redis.NewIntResult(0, nil)).Once()
	publisher, err := NewPublisher(client)
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), kernel.NewUUID(), "order_update", struct{}{})

	require.NoError(t, err)
}

func TestPublisher_Publish_ReturnsClientError(t *testing.T) {
	client := &mockClient{}
	cause := errors.New("connection refused")
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(redis.NewIntResult(0, cause)).Once()
	publisher, err := NewPublisher(client)
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), kernel.NewUUID(), "order_update", struct{}{})

	require.ErrorIs(t, err, cause)
}

func TestDial_InvalidURL(t *testing.T) {
	_, err := Dial(context.Background(), "not-a-redis-url")

	require.ErrorContains(t, err, "parse Redis URL")
}
