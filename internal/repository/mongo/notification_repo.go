package mongo

import (
	"context"
	"errors"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollectionName = "notifications"

// recipientListLimit caps how many notifications a listing returns.
const recipientListLimit = 100

type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new Notification repository.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

// Create inserts an unread notification.
func (r *mongoNotificationRepository) Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error) {
	if n.RecipientID == primitive.NilObjectID || n.Type == "" {
		return primitive.NilObjectID, errors.New("notification requires recipientId and type")
	}
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now().UTC()

	return insertOne(ctx, r.collection, n)
}

// GetByRecipient returns the latest notifications for one account.
func (r *mongoNotificationRepository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]domain.Notification, error) {
	findOptions := newestFirst().SetLimit(recipientListLimit)
	return findAll[domain.Notification](ctx, r.collection, bson.M{"recipientId": recipientID}, findOptions)
}

// MarkRead flags a notification as read. Another account's notification is
// reported as not found.
func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipientId": recipientID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNotificationIndexes creates necessary indexes for the notifications collection.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
