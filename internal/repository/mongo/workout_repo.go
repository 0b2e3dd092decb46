// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.TrainerID == primitive.NilObjectID || workout.TraineeID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires trainerId, traineeId, and name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.Status == "" {
		workout.Status = domain.WorkoutScheduled
	}
	if workout.Exercises == nil {
		workout.Exercises = []domain.ExerciseEntry{}
	}

	return insertOne(ctx, r.collection, workout)
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return findOne[domain.Workout](ctx, r.collection, bson.M{"_id": id})
}

// GetByTrainee lists a trainee's workouts, newest first.
func (r *mongoWorkoutRepository) GetByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Workout, error) {
	return findAll[domain.Workout](ctx, r.collection, bson.M{"traineeId": traineeID}, newestFirst())
}

// GetByTrainerAndTrainee lists the workouts a trainer authored for one trainee.
func (r *mongoWorkoutRepository) GetByTrainerAndTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Workout, error) {
	filter := bson.M{"trainerId": trainerID, "traineeId": traineeID}
	return findAll[domain.Workout](ctx, r.collection, filter, newestFirst())
}

// UpdateStatus writes the new status and completion feedback, but only while
// the stored workout is still in state from.
func (r *mongoWorkoutRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from domain.WorkoutStatus, workout *domain.Workout) error {
	if id == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":    workout.Status,
		"updatedAt": now,
	}
	if workout.Rating != nil {
		set["rating"] = *workout.Rating
	}
	if workout.Comments != "" {
		set["comments"] = workout.Comments
	}
	if workout.CompletedAt != nil {
		set["completedAt"] = workout.CompletedAt.UTC()
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrUpdateFailed
	}
	workout.UpdatedAt = now
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, workoutID primitive.ObjectID, trainerID primitive.ObjectID) error {
	if workoutID == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return errors.New("workout ID and trainer ID are required for deletion")
	}

	// Only the authoring trainer may delete.
	filter := bson.M{
		"_id":       workoutID,
		"trainerId": trainerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "traineeId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
