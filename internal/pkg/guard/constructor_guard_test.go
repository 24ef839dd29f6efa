package guard_test

import (
	"errors"
	"testing"

	"orderlifecycle/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("command not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuardEmbedded checks the usage pattern of commands: a zero-value
// struct embedding the guard fails validation, a constructed one passes.
func TestConstructorGuardEmbedded(t *testing.T) {
	errTickNotConstructed := errors.New("tick must be created via newTick")

	type tick struct {
		batch int
		guard guard.ConstructorGuard
	}

	newTick := func(batch int) (tick, error) {
		if batch <= 0 {
			return tick{}, errors.New("batch must be positive")
		}
		return tick{batch: batch, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed", func(t *testing.T) {
		tk, err := newTick(10)

		require.NoError(t, err)
		require.NoError(t, tk.guard.Validate(errTickNotConstructed))
		assert.Equal(t, 10, tk.batch)
	})

	t.Run("zero_value", func(t *testing.T) {
		var tk tick

		assert.Equal(t, errTickNotConstructed, tk.guard.Validate(errTickNotConstructed))
	})

	t.Run("constructor_rules", func(t *testing.T) {
		_, err := newTick(0)

		require.Error(t, err)
	})
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 200 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}
