package mongo

import (
	"context"
	"errors"

	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findOne decodes a single document, mapping ErrNoDocuments to repository.ErrNotFound.
func findOne[T any](ctx context.Context, collection *mongo.Collection, filter any) (*T, error) {
	var doc T
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// findAll decodes every matching document. The result is never nil.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	docs := []T{}
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// insertOne inserts doc and returns its ObjectID.
func insertOne(ctx context.Context, collection *mongo.Collection, doc any) (primitive.ObjectID, error) {
	result, err := collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
