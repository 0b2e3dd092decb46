package mongo

import (
	"context"
	"testing"

	"amfit/coach-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPhotoRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the removed record", func(mt *mtest.T) {
		repo := &mongoPhotoRepository{collection: mt.Coll}
		assessmentID, photoID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: photoID},
				{Key: "assessmentId", Value: assessmentID},
				{Key: "objectKey", Value: "assessments/t/a/p.jpg"},
				{Key: "contentType", Value: "image/jpeg"},
			}},
		})

		photo, err := repo.Delete(context.Background(), assessmentID, photoID)
		require.NoError(mt, err)
		assert.Equal(mt, photoID, photo.ID)
		assert.Equal(mt, "assessments/t/a/p.jpg", photo.ObjectKey)
	})

	mt.Run("missing photo is not found", func(mt *mtest.T) {
		repo := &mongoPhotoRepository{collection: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
