package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amfit/coach-app/internal/config"
	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/live"
	"amfit/coach-app/internal/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const breakerTimeout = 5 * time.Second

type redisFeed struct {
	log     *logger.Logger
	rdb     *goredis.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker
}

// NewRedisFeed connects to Redis and verifies the connection with a ping.
func NewRedisFeed(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (Feed, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisFeed(rdb, cfg.ChannelPrefix, log), nil
}

func newRedisFeed(rdb *goredis.Client, prefix string, log *logger.Logger) *redisFeed {
	log = log.With("service", "RedisNotificationFeed")
	if prefix == "" {
		prefix = "notifications"
	}
	return &redisFeed{
		log:     log,
		rdb:     rdb,
		prefix:  prefix,
		breaker: newBreaker("Redis-Notifications", breakerTimeout, log),
	}
}

// channel is the pub/sub channel of one recipient.
func (f *redisFeed) channel(recipientID string) string {
	return f.prefix + ":" + recipientID
}

// Publish sends n to the recipient's channel. While the breaker is open the
// call fails fast with ErrFeedUnavailable.
func (f *redisFeed) Publish(ctx context.Context, n domain.Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, err = f.breaker.Execute(func() (interface{}, error) {
		return nil, f.rdb.Publish(ctx, f.channel(n.RecipientID.Hex()), raw).Err()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrFeedUnavailable
	}
	return err
}

// Subscribe listens on the recipient's channel until the subscription is closed.
func (f *redisFeed) Subscribe(ctx context.Context, recipientID string) (*Subscription, error) {
	if f.breaker.State() == gobreaker.StateOpen {
		return nil, ErrFeedUnavailable
	}

	pubsub := f.rdb.Subscribe(ctx, f.channel(recipientID))
	// ensures subscription actually started
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	return live.Start(ctx, func(ctx context.Context, emit func(domain.Notification) bool) error {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case m, ok := <-ch:
				if !ok {
					return errors.New("redis subscription closed")
				}
				var n domain.Notification
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					f.log.Warn("bad notification payload", "channel", m.Channel, "error", err)
					continue
				}
				if !emit(n) {
					return nil
				}
			}
		}
	}), nil
}

func (f *redisFeed) Ping(ctx context.Context) error {
	return f.rdb.Ping(ctx).Err()
}

func (f *redisFeed) Close() error {
	return f.rdb.Close()
}
