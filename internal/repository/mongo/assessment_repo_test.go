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

func TestAssessmentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create keeps derived values", func(mt *mtest.T) {
		repo := &mongoAssessmentRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		bmi := 22.9
		a := &domain.Assessment{
			TrainerID: primitive.NewObjectID(),
			TraineeID: primitive.NewObjectID(),
			WeightKg:  70,
			HeightCm:  175,
			BMI:       &bmi,
		}
		id, err := repo.Create(context.Background(), a)
		require.NoError(mt, err)
		assert.Equal(mt, a.ID, id)
		assert.Equal(mt, 22.9, *a.BMI)
	})

	mt.Run("history decodes stored measurements", func(mt *mtest.T) {
		repo := &mongoAssessmentRepository{collection: mt.Coll}
		traineeID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.assessments", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "traineeId", Value: traineeID},
				{Key: "weight", Value: 80.0},
				{Key: "height", Value: 180.0},
				{Key: "bmi", Value: 24.7},
				{Key: "createdAt", Value: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			},
		))

		history, err := repo.GetByTrainee(context.Background(), traineeID)
		require.NoError(mt, err)
		require.Len(mt, history, 1)
		assert.Equal(mt, 80.0, history[0].WeightKg)
		require.NotNil(mt, history[0].BMI)
		assert.Equal(mt, 24.7, *history[0].BMI)
	})

	mt.Run("missing assessment", func(mt *mtest.T) {
		repo := &mongoAssessmentRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.assessments", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestNotificationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create resets read flag", func(mt *mtest.T) {
		repo := &mongoNotificationRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		n := &domain.Notification{RecipientID: primitive.NewObjectID(), Type: domain.NotificationNewStudent, Read: true}
		_, err := repo.Create(context.Background(), n)
		require.NoError(mt, err)
		assert.False(mt, n.Read)
	})

	mt.Run("mark read for another recipient", func(mt *mtest.T) {
		repo := &mongoNotificationRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.MarkRead(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestPhotoRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("requires object key", func(mt *mtest.T) {
		repo := &mongoPhotoRepository{collection: mt.Coll}
		_, err := repo.Create(context.Background(), &domain.AssessmentPhoto{AssessmentID: primitive.NewObjectID()})
		assert.Error(mt, err)
	})

	mt.Run("stores metadata", func(mt *mtest.T) {
		repo := &mongoPhotoRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &domain.AssessmentPhoto{
			AssessmentID: primitive.NewObjectID(),
			ObjectKey:    "assessments/a/b.jpg",
			ContentType:  "image/jpeg",
		}
		_, err := repo.Create(context.Background(), p)
		require.NoError(mt, err)
		assert.False(mt, p.UploadedAt.IsZero())
	})
}

func TestExerciseRepository_Seed(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("counts upserts", func(mt *mtest.T) {
		repo := &mongoExerciseRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{
				bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: primitive.NewObjectID()}},
			}},
		))

		inserted, err := repo.Seed(context.Background(), []domain.Exercise{
			{Slug: "bench-press", Name: "Bench press"},
			{Slug: "squat", Name: "Back squat"},
		})
		require.NoError(mt, err)
		assert.Equal(mt, 1, inserted)
	})

	mt.Run("nothing to seed", func(mt *mtest.T) {
		repo := &mongoExerciseRepository{collection: mt.Coll}
		inserted, err := repo.Seed(context.Background(), nil)
		require.NoError(mt, err)
		assert.Zero(mt, inserted)
	})

	mt.Run("rejects entries without slug", func(mt *mtest.T) {
		repo := &mongoExerciseRepository{collection: mt.Coll}
		_, err := repo.Seed(context.Background(), []domain.Exercise{{Name: "Nameless"}})
		assert.Error(mt, err)
	})
}
