package cmd

import (
	"context"
	"log/slog"
	"testing"

	"orderlifecycle/internal/adapters/out/notify"
	"orderlifecycle/internal/adapters/out/stripepay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationChannel_LogFallback(t *testing.T) {
	channel, closeFn, err := NewNotificationChannel(context.Background(), Config{NotifyBackend: NotifyLog}, slog.New(slog.DiscardHandler))

	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &notify.LogPublisher{}, channel)
}

func TestNewNotificationChannel_RedisBadURL(t *testing.T) {
	_, _, err := NewNotificationChannel(context.Background(), Config{NotifyBackend: NotifyRedis, RedisURL: "::"}, slog.New(slog.DiscardHandler))

	require.Error(t, err)
}

func TestNewPaymentGateway(t *testing.T) {
	gateway, err := NewPaymentGateway(Config{})
	require.NoError(t, err)
	assert.Nil(t, gateway)

	gateway, err = NewPaymentGateway(Config{StripeAPIKey: "sk_test_123"})
	require.NoError(t, err)
	assert.IsType(t, &stripepay.Gateway{}, gateway)
}
