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

const photoCollectionName = "assessment_photos"

type mongoPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoPhotoRepository creates a repository for assessment photo metadata.
func NewMongoPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts a photo metadata record.
func (r *mongoPhotoRepository) Create(ctx context.Context, photo *domain.AssessmentPhoto) (primitive.ObjectID, error) {
	if photo.AssessmentID == primitive.NilObjectID || photo.ObjectKey == "" || photo.ContentType == "" {
		return primitive.NilObjectID, errors.New("photo requires assessmentId, objectKey, and contentType")
	}

	photo.ID = primitive.NewObjectID()
	photo.UploadedAt = time.Now().UTC()

	return insertOne(ctx, r.collection, photo)
}

// GetByAssessment lists the photos of one assessment in upload order.
func (r *mongoPhotoRepository) GetByAssessment(ctx context.Context, assessmentID primitive.ObjectID) ([]domain.AssessmentPhoto, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}})
	return findAll[domain.AssessmentPhoto](ctx, r.collection, bson.M{"assessmentId": assessmentID}, findOptions)
}

// Delete removes the photo in a single findAndModify so the caller gets the
// object key of exactly the record it removed.
func (r *mongoPhotoRepository) Delete(ctx context.Context, assessmentID, photoID primitive.ObjectID) (*domain.AssessmentPhoto, error) {
	var photo domain.AssessmentPhoto
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": photoID, "assessmentId": assessmentID}).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// EnsurePhotoIndexes creates necessary indexes for the photo collection.
func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assessmentId", Value: 1}, {Key: "uploadedAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
