package notify

import (
	"errors"
	"sync"
	"time"
)

// ErrDaemonDown is returned while the breaker holds notifications back.
var ErrDaemonDown = errors.New("notification daemon unreachable")

// breakerState follows the classic closed, open, half-open cycle.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

const (
	// tripAfter consecutive bus failures stop further delivery attempts.
	tripAfter = 3
	// retryAfter is how long the breaker stays open before probing again.
	retryAfter = 30 * time.Second
)

// breaker shields the session bus from repeated calls while the
// notification daemon is down. Web pages can fire notifications in tight
// loops; once delivery starts failing, further attempts are refused until
// a cooldown passes, then a single probe call decides whether to resume.
type breaker struct {
	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
	now      func() time.Time // replaced in tests
}

func newBreaker() *breaker {
	return &breaker{now: time.Now}
}

// call runs fn unless the breaker is open. In half-open state exactly one
// success closes the breaker again.
func (b *breaker) call(fn func() error) error {
	if !b.allow() {
		return ErrDaemonDown
	}
	err := fn()
	b.record(err == nil)
	return err
}

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateClosed, stateHalfOpen:
		return true
	case stateOpen:
		if b.now().Sub(b.openedAt) >= retryAfter {
			b.state = stateHalfOpen
			return true
		}
		return false
	default:
		return false
	}
}

func (b *breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ok {
		b.state = stateClosed
		b.failures = 0
		return
	}
	b.failures++
	if b.state == stateHalfOpen || b.failures >= tripAfter {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
