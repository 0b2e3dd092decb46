package service

import (
	"context"
	"errors"
	"fmt"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/notify"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService stores notifications and pushes them to live listeners.
type NotificationService interface {
	// Notify persists n and then publishes it. A failed publish is logged,
	// never returned: the stored copy is the source of truth.
	Notify(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, recipientID primitive.ObjectID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error
	// Subscribe opens a live feed for recipientID. The caller must Close it.
	Subscribe(ctx context.Context, recipientID primitive.ObjectID) (*notify.Subscription, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	feed             notify.Feed
	metrics          *metrics.Metrics
	log              *logger.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	feed notify.Feed,
	m *metrics.Metrics,
	log *logger.Logger,
) NotificationService {
	if feed == nil {
		feed = notify.NewDisabledFeed()
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		feed:             feed,
		metrics:          m,
		log:              log.With("service", "NotificationService"),
	}
}

func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) error {
	if n.RecipientID == primitive.NilObjectID {
		return errors.New("notification recipient is required")
	}
	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if err := s.feed.Publish(ctx, *n); err != nil {
		s.metrics.FeedPublishFailed()
		s.log.Warn("live notification publish failed", "recipient", n.RecipientID.Hex(), "type", n.Type, "error", err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, recipientID primitive.ObjectID) ([]domain.Notification, error) {
	return s.notificationRepo.GetByRecipient(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	err := s.notificationRepo.MarkRead(ctx, id, recipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) Subscribe(ctx context.Context, recipientID primitive.ObjectID) (*notify.Subscription, error) {
	return s.feed.Subscribe(ctx, recipientID.Hex())
}

// notifyQuietly is used where a notification is a side effect of another
// operation that already succeeded.
func notifyQuietly(ctx context.Context, svc NotificationService, log *logger.Logger, n *domain.Notification) {
	if svc == nil {
		return
	}
	if err := svc.Notify(ctx, n); err != nil {
		log.Error("failed to create notification", "type", n.Type, "recipient", n.RecipientID.Hex(), "error", err)
	}
}
