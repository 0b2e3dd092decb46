// Package notify pushes stored notifications to connected clients.
//
// Notifications are persisted by the service layer first; the feed only
// carries a live copy to whoever is listening at that moment, so a lost
// publish never loses a notification.
package notify

import (
	"context"
	"errors"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/live"
)

var (
	// ErrFeedDisabled is returned by Subscribe when no live feed is configured.
	ErrFeedDisabled = errors.New("live notification feed disabled")
	// ErrFeedUnavailable is returned while the circuit breaker is open.
	ErrFeedUnavailable = errors.New("live notification feed unavailable")
)

// Subscription delivers notifications for one recipient.
type Subscription = live.Subscription[domain.Notification]

// Feed fans notifications out to the recipient's live subscribers.
type Feed interface {
	Publish(ctx context.Context, n domain.Notification) error
	// Subscribe returns a subscription the caller must Close.
	Subscribe(ctx context.Context, recipientID string) (*Subscription, error)
	Ping(ctx context.Context) error
	Close() error
}

// disabledFeed is used when Redis is turned off in configuration.
type disabledFeed struct{}

// NewDisabledFeed returns a feed that drops publishes and refuses subscribers.
func NewDisabledFeed() Feed {
	return disabledFeed{}
}

func (disabledFeed) Publish(context.Context, domain.Notification) error { return nil }

func (disabledFeed) Subscribe(context.Context, string) (*Subscription, error) {
	return nil, ErrFeedDisabled
}

func (disabledFeed) Ping(context.Context) error { return nil }

func (disabledFeed) Close() error { return nil }
