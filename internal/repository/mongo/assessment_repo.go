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

const assessmentCollectionName = "assessments"

// mongoAssessmentRepository implements repository.AssessmentRepository.
// Records are insert-only.
type mongoAssessmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssessmentRepository creates a new Assessment repository.
func NewMongoAssessmentRepository(db *mongo.Database) repository.AssessmentRepository {
	return &mongoAssessmentRepository{
		collection: db.Collection(assessmentCollectionName),
	}
}

// Create stores a new assessment with its derived values already filled in.
func (r *mongoAssessmentRepository) Create(ctx context.Context, assessment *domain.Assessment) (primitive.ObjectID, error) {
	if assessment.TrainerID == primitive.NilObjectID || assessment.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assessment requires trainerId and traineeId")
	}
	assessment.ID = primitive.NewObjectID()
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}
	return insertOne(ctx, r.collection, assessment)
}

func (r *mongoAssessmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assessment, error) {
	return findOne[domain.Assessment](ctx, r.collection, bson.M{"_id": id})
}

// GetByTrainee returns a trainee's history, newest first.
func (r *mongoAssessmentRepository) GetByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Assessment, error) {
	return findAll[domain.Assessment](ctx, r.collection, bson.M{"traineeId": traineeID}, newestFirst())
}

// GetByTrainer returns every assessment a trainer recorded, newest first.
func (r *mongoAssessmentRepository) GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Assessment, error) {
	return findAll[domain.Assessment](ctx, r.collection, bson.M{"trainerId": trainerID}, newestFirst())
}

// EnsureAssessmentIndexes creates necessary indexes for the assessments collection.
func EnsureAssessmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
