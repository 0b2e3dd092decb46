package testutil

import (
	"context"
	"sync"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/live"
	"amfit/coach-app/internal/notify"
)

// MockFeed implements notify.Feed with in-process channels.
type MockFeed struct {
	mu          sync.Mutex
	subscribers map[string][]chan domain.Notification

	Published []domain.Notification

	PublishError   error
	SubscribeError error
	PingError      error
}

var _ notify.Feed = (*MockFeed)(nil)

func NewMockFeed() *MockFeed {
	return &MockFeed{subscribers: make(map[string][]chan domain.Notification)}
}

// PublishedTo returns what was published for one recipient.
func (f *MockFeed) PublishedTo(recipientID string) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.Published {
		if n.RecipientID.Hex() == recipientID {
			out = append(out, n)
		}
	}
	return out
}

// Subscribers reports how many live subscriptions recipientID has.
func (f *MockFeed) Subscribers(recipientID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[recipientID])
}

func (f *MockFeed) Publish(ctx context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Published = append(f.Published, n)
	for _, ch := range f.subscribers[n.RecipientID.Hex()] {
		select {
		case ch <- n:
		default:
		}
	}
	return nil
}

func (f *MockFeed) Subscribe(ctx context.Context, recipientID string) (*notify.Subscription, error) {
	if f.SubscribeError != nil {
		return nil, f.SubscribeError
	}
	ch := make(chan domain.Notification, 16)
	f.mu.Lock()
	f.subscribers[recipientID] = append(f.subscribers[recipientID], ch)
	f.mu.Unlock()

	return live.Start(ctx, func(ctx context.Context, emit func(domain.Notification) bool) error {
		defer f.remove(recipientID, ch)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case n := <-ch:
				if !emit(n) {
					return nil
				}
			}
		}
	}), nil
}

func (f *MockFeed) remove(recipientID string, ch chan domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := f.subscribers[recipientID]
	for i, c := range subs {
		if c == ch {
			f.subscribers[recipientID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(f.subscribers[recipientID]) == 0 {
		delete(f.subscribers, recipientID)
	}
}

func (f *MockFeed) Ping(ctx context.Context) error { return f.PingError }

func (f *MockFeed) Close() error { return nil }
