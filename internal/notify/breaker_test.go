package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBus = errors.New("bus error")

func failing(calls *int) func() error {
	return func() error {
		*calls++
		return errBus
	}
}

func succeeding(calls *int) func() error {
	return func() error {
		*calls++
		return nil
	}
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := newBreaker()
	var calls int
	for i := 0; i < 10; i++ {
		assert.NoError(t, b.call(succeeding(&calls)))
	}
	assert.Equal(t, 10, calls)
}

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := newBreaker()
	var calls int
	for i := 0; i < tripAfter; i++ {
		assert.ErrorIs(t, b.call(failing(&calls)), errBus)
	}
	assert.Equal(t, tripAfter, calls)

	// Open: the underlying call is not attempted anymore.
	assert.ErrorIs(t, b.call(failing(&calls)), ErrDaemonDown)
	assert.Equal(t, tripAfter, calls)
}

func TestBreakerRecoversAfterCooldown(t *testing.T) {
	b := newBreaker()
	now := time.Now()
	b.now = func() time.Time { return now }

	var calls int
	for i := 0; i < tripAfter; i++ {
		_ = b.call(failing(&calls))
	}
	assert.ErrorIs(t, b.call(succeeding(&calls)), ErrDaemonDown)

	now = now.Add(retryAfter)
	assert.NoError(t, b.call(succeeding(&calls)))

	// Closed again, failures reset.
	assert.NoError(t, b.call(succeeding(&calls)))
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := newBreaker()
	now := time.Now()
	b.now = func() time.Time { return now }

	var calls int
	for i := 0; i < tripAfter; i++ {
		_ = b.call(failing(&calls))
	}

	now = now.Add(retryAfter)
	assert.ErrorIs(t, b.call(failing(&calls)), errBus)

	// The probe failed, so the breaker is open for another full cooldown.
	assert.ErrorIs(t, b.call(succeeding(&calls)), ErrDaemonDown)
	now = now.Add(retryAfter - time.Second)
	assert.ErrorIs(t, b.call(succeeding(&calls)), ErrDaemonDown)
	now = now.Add(time.Second)
	assert.NoError(t, b.call(succeeding(&calls)))
}

func TestBreakerResetsCountOnIntermittentSuccess(t *testing.T) {
	b := newBreaker()
	var calls int
	for i := 0; i < tripAfter-1; i++ {
		_ = b.call(failing(&calls))
	}
	assert.NoError(t, b.call(succeeding(&calls)))
	for i := 0; i < tripAfter-1; i++ {
		assert.ErrorIs(t, b.call(failing(&calls)), errBus)
	}
	// Still closed; the success cleared the streak.
	assert.ErrorIs(t, b.call(failing(&calls)), errBus)
	assert.ErrorIs(t, b.call(failing(&calls)), ErrDaemonDown)
}