package kernel_test

import (
	"testing"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := kernel.NewMoney(1234)
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(1234), m)

	_, err = kernel.NewMoney(-1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestMoney_Percent(t *testing.T) {
	assert.Equal(t, kernel.Money(1000), kernel.Money(5000).Percent(0.2))
	assert.Equal(t, kernel.Money(400), kernel.Money(8000).Percent(0.05))
	assert.Equal(t, kernel.Money(1), kernel.Money(10).Percent(0.05), "0.5 cents rounds half away from zero")
	assert.Equal(t, kernel.Money(0), kernel.Money(9).Percent(0.05))
}

func TestMoney_Arithmetic(t *testing.T) {
	assert.Equal(t, kernel.Money(300), kernel.Money(100).Add(200))
	assert.Equal(t, kernel.Money(50), kernel.Money(150).Sub(100))
	assert.Equal(t, kernel.Zero, kernel.Money(100).Sub(150), "subtraction clamps at zero")
	assert.Equal(t, kernel.Money(750), kernel.Money(250).Times(3))
	assert.Equal(t, kernel.Money(100), kernel.Money(100).Min(200))
	assert.Equal(t, int64(12), kernel.Money(1299).WholeUnits())
	assert.InDelta(t, 12.99, kernel.Money(1299).Major(), 1e-9)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "10.00", kernel.Money(1000).String())
	assert.Equal(t, "0.05", kernel.Money(5).String())
	assert.Equal(t, "123.45", kernel.Money(12345).String())
}
