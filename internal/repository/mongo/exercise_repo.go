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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// List returns the whole catalog grouped by muscle group.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "muscleGroup", Value: 1}, {Key: "name", Value: 1}})
	return findAll[domain.Exercise](ctx, r.collection, bson.M{}, findOptions)
}

// GetBySlug retrieves an exercise by its catalog identifier.
func (r *mongoExerciseRepository) GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error) {
	return findOne[domain.Exercise](ctx, r.collection, bson.M{"slug": slug})
}

// Seed upserts each exercise by slug without overwriting stored entries and
// returns how many were inserted.
func (r *mongoExerciseRepository) Seed(ctx context.Context, exercises []domain.Exercise) (int, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(exercises))
	for _, ex := range exercises {
		if ex.Slug == "" || ex.Name == "" {
			return 0, errors.New("exercise slug and name are required")
		}
		ex.ID = primitive.NilObjectID
		ex.CreatedAt = now
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"slug": ex.Slug}).
			SetUpdate(bson.M{"$setOnInsert": ex}).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount), nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
