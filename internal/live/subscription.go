// Package live turns push-style sources (change streams, pub/sub channels)
// into subscriptions with a single owner and a guaranteed release.
//
// The owner of a Subscription must call Close exactly once on every exit
// path, typically with defer right after Start. Close cancels the source,
// waits for the producing goroutine to return, and is safe to call again.
package live

import (
	"context"
	"errors"
	"sync"
)

// Producer feeds a subscription until ctx is cancelled or the source fails.
// emit blocks until the consumer takes the value and returns false once the
// subscription is closed, at which point the producer should return.
type Producer[T any] func(ctx context.Context, emit func(T) bool) error

// Subscription delivers values from one Producer.
type Subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	mu  sync.Mutex
	err error
}

// Start runs produce in its own goroutine. The subscription ends when parent
// is cancelled, when Close is called, or when produce returns.
func Start[T any](parent context.Context, produce Producer[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(parent)
	s := &Subscription[T]{
		updates: make(chan T),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.updates)
		defer cancel()

		err := produce(ctx, func(v T) bool {
			select {
			case s.updates <- v:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}()

	return s
}

// Updates is closed when the subscription ends for any reason.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Done is closed after the producer has returned and released its source.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the subscription, if the source failed.
// Cancellation is not an error.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the producer and blocks until it has returned.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.cancel()
		// drain so a producer blocked in emit cannot outlive Close
		go func() {
			for range s.updates {
			}
		}()
		<-s.done
	})
}
