package irrecoverable_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onflow/chainbft/module/irrecoverable"
)

var errSentinel = errors.New("sentinel")

func TestException(t *testing.T) {
	exception := irrecoverable.NewExceptionf("could not store: %w", errSentinel)

	t.Run("detected through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("could not process: %w", exception)
		assert.True(t, irrecoverable.IsException(exception))
		assert.True(t, irrecoverable.IsException(wrapped))
		assert.Equal(t, "could not process: could not store: sentinel", wrapped.Error())
	})

	t.Run("wrapped sentinel stays reachable", func(t *testing.T) {
		assert.ErrorIs(t, exception, errSentinel)
	})

	t.Run("plain errors are not exceptions", func(t *testing.T) {
		assert.False(t, irrecoverable.IsException(errSentinel))
		assert.False(t, irrecoverable.IsException(fmt.Errorf("wrapped: %w", errSentinel)))
	})
}
