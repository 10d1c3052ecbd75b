// Package eventloop runs callbacks one at a time on a single goroutine.
//
// Audio callbacks, HTTP readers and timers never touch playback state directly:
// they post closures to the loop, which executes them in order. Components that
// only need scheduling depend on the Runner interface so tests can drive time
// by hand with Manual.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Runner schedules work on the loop.
type Runner interface {
	// Post queues fn. It never blocks.
	Post(fn func())
	// Every posts fn every d until stop is called.
	Every(d time.Duration, fn func()) (stop func())
}

// Executor is a Runner that can also run fn synchronously and return its
// error. Commands arriving from other goroutines go through Do.
type Executor interface {
	Runner
	Do(fn func() error) error
}

// Loop is the production Runner.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	logger zerolog.Logger
}

// New creates a loop. Call Run to start executing posted work.
func New(logger zerolog.Logger) *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "eventloop").Logger(),
	}
}

// Post queues fn for execution on the loop goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for its result.
// It must not be called from a callback already running on the loop.
func (l *Loop) Do(fn func() error) error {
	result := make(chan error, 1)
	l.Post(func() { result <- fn() })

	select {
	case err := <-result:
		return err
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Every posts fn every d. Ticks that were already queued when stop is called
// may still run; callers that care guard with their own generation counter.
func (l *Loop) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	quit := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Post(fn)
			case <-quit:
				return
			case <-l.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(quit) }) }
}

// Done is closed once Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.logger.Debug().Msg("event loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug().Msg("event loop stopped")
			return ctx.Err()
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			batch := l.queue
			l.queue = nil
			l.mu.Unlock()

			for _, fn := range batch {
				fn()
			}
		}
	}
}

var _ Executor = (*Loop)(nil)
