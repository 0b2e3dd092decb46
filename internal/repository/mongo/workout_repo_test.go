package mongo

import (
	"context"
	"testing"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestWorkoutRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("defaults to scheduled", func(mt *mtest.T) {
		repo := &mongoWorkoutRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		w := &domain.Workout{TrainerID: primitive.NewObjectID(), TraineeID: primitive.NewObjectID(), Name: "Upper A"}
		_, err := repo.Create(context.Background(), w)
		require.NoError(mt, err)
		assert.Equal(mt, domain.WorkoutScheduled, w.Status)
		assert.NotNil(mt, w.Exercises)
	})

	mt.Run("requires owner and trainee", func(mt *mtest.T) {
		repo := &mongoWorkoutRepository{collection: mt.Coll}
		_, err := repo.Create(context.Background(), &domain.Workout{Name: "Upper A"})
		assert.Error(mt, err)
	})
}

func TestWorkoutRepository_UpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("transition applied", func(mt *mtest.T) {
		repo := &mongoWorkoutRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		rating := 5
		now := time.Now()
		w := &domain.Workout{Status: domain.WorkoutCompleted, Rating: &rating, CompletedAt: &now}
		err := repo.UpdateStatus(context.Background(), primitive.NewObjectID(), domain.WorkoutScheduled, w)
		assert.NoError(mt, err)
	})

	mt.Run("workout already left the source state", func(mt *mtest.T) {
		repo := &mongoWorkoutRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		w := &domain.Workout{Status: domain.WorkoutCancelled}
		err := repo.UpdateStatus(context.Background(), primitive.NewObjectID(), domain.WorkoutScheduled, w)
		assert.ErrorIs(mt, err, repository.ErrUpdateFailed)
	})
}

func TestWorkoutRepository_GetByTrainee(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes workouts", func(mt *mtest.T) {
		repo := &mongoWorkoutRepository{collection: mt.Coll}
		traineeID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.workouts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "traineeId", Value: traineeID},
			{Key: "name", Value: "Lower B"},
			{Key: "status", Value: "scheduled"},
		}))

		workouts, err := repo.GetByTrainee(context.Background(), traineeID)
		require.NoError(mt, err)
		require.Len(mt, workouts, 1)
		assert.Equal(mt, domain.WorkoutScheduled, workouts[0].Status)
	})
}

func TestWorkoutRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("other trainer's workout", func(mt *mtest.T) {
		repo := &mongoWorkoutRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
