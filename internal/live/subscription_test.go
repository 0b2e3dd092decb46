package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter emits 1, 2, 3, ... until cancelled and records each release.
func counter(released *atomic.Int32) Producer[int] {
	return func(ctx context.Context, emit func(int) bool) error {
		defer released.Add(1)
		for i := 1; ; i++ {
			if !emit(i) {
				return ctx.Err()
			}
		}
	}
}

func TestSubscription_DeliversInOrder(t *testing.T) {
	var released atomic.Int32
	sub := Start(context.Background(), counter(&released))
	defer sub.Close()

	for want := 1; want <= 3; want++ {
		select {
		case got := <-sub.Updates():
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for update")
		}
	}
}

func TestSubscription_CloseReleasesExactlyOnce(t *testing.T) {
	var released atomic.Int32
	sub := Start(context.Background(), counter(&released))
	<-sub.Updates()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Close()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), released.Load())
	assert.NoError(t, sub.Err(), "cancellation is not a failure")
	_, open := <-sub.Updates()
	assert.False(t, open)
}

func TestSubscription_ParentCancellationEndsIt(t *testing.T) {
	var released atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	sub := Start(ctx, counter(&released))
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("producer did not stop after parent cancellation")
	}
	assert.Equal(t, int32(1), released.Load())
	sub.Close()
	assert.Equal(t, int32(1), released.Load())
}

func TestSubscription_SourceFailureIsReported(t *testing.T) {
	boom := errors.New("change stream invalidated")
	sub := Start(context.Background(), func(ctx context.Context, emit func(string) bool) error {
		emit("first")
		return boom
	})
	defer sub.Close()

	require.Equal(t, "first", <-sub.Updates())
	_, open := <-sub.Updates()
	assert.False(t, open)
	<-sub.Done()
	assert.ErrorIs(t, sub.Err(), boom)
}

func TestSubscription_CloseWithoutConsumingDoesNotLeak(t *testing.T) {
	var released atomic.Int32
	sub := Start(context.Background(), counter(&released))

	done := make(chan struct{})
	go func() {
		sub.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked on an unconsumed update")
	}
	assert.Equal(t, int32(1), released.Load())
}
