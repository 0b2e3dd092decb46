package mongo

import (
	"context"
	"errors"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/live"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// rosterFilter selects the trainees linked to code. Equality is exact and
// case-sensitive; an empty code is never queried.
func rosterFilter(code string) bson.M {
	return bson.M{"role": domain.RoleTrainee, "trainerCode": code}
}

// Create inserts a new account into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if !user.Role.Valid() || user.Name == "" || user.TrainerCode == "" {
		return primitive.NilObjectID, errors.New("user name, role and trainer code are required")
	}
	if !user.Provisional && (user.Email == "" || user.PasswordHash == "") {
		return primitive.NilObjectID, errors.New("user email and password hash are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	return insertOne(ctx, r.collection, user)
}

// GetByEmail retrieves an account by its email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.collection, bson.M{"email": email})
}

// GetByID retrieves an account by its MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return findOne[domain.User](ctx, r.collection, bson.M{"_id": id})
}

// GetTrainerByCode resolves a trainer code to its owner.
func (r *mongoUserRepository) GetTrainerByCode(ctx context.Context, code string) (*domain.User, error) {
	if code == "" {
		return nil, repository.ErrNotFound
	}
	return findOne[domain.User](ctx, r.collection, bson.M{"role": domain.RoleTrainer, "trainerCode": code})
}

// TrainerCodeExists reports whether a trainer already owns code.
func (r *mongoUserRepository) TrainerCodeExists(ctx context.Context, code string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"role": domain.RoleTrainer, "trainerCode": code},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetTraineesByTrainerCode returns the roster for code, oldest first.
func (r *mongoUserRepository) GetTraineesByTrainerCode(ctx context.Context, code string) ([]domain.User, error) {
	if code == "" {
		return []domain.User{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[domain.User](ctx, r.collection, rosterFilter(code), findOptions)
}

// rosterChangePipeline passes every change that could alter the roster for
// code. Delete events carry no document, so all of them are passed through.
func rosterChangePipeline(code string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"fullDocument.role": domain.RoleTrainee, "fullDocument.trainerCode": code},
			bson.M{"operationType": "delete"},
		}}}},
	}
}

// WatchTraineesByTrainerCode opens a change stream on the users collection and
// emits a fresh roster snapshot after each relevant change. The stream is
// opened before returning so deployments without change stream support fail
// here rather than inside the subscription.
func (r *mongoUserRepository) WatchTraineesByTrainerCode(ctx context.Context, code string) (*repository.RosterSubscription, error) {
	streamOptions := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(ctx, rosterChangePipeline(code), streamOptions)
	if err != nil {
		return nil, err
	}

	return live.Start(ctx, func(ctx context.Context, emit func([]domain.User) bool) error {
		defer stream.Close(context.Background())

		trainees, err := r.GetTraineesByTrainerCode(ctx, code)
		if err != nil {
			return err
		}
		if !emit(trainees) {
			return nil
		}
		for stream.Next(ctx) {
			trainees, err := r.GetTraineesByTrainerCode(ctx, code)
			if err != nil {
				return err
			}
			if !emit(trainees) {
				return nil
			}
		}
		return stream.Err()
	}), nil
}

// UpdateTraineeProfile rewrites the editable profile fields. trainerCode is
// not part of the update.
func (r *mongoUserRepository) UpdateTraineeProfile(ctx context.Context, id primitive.ObjectID, profile domain.TraineeProfile) error {
	set := bson.M{
		"name":      profile.Name,
		"goal":      profile.Goal,
		"gender":    profile.Gender,
		"updatedAt": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if profile.Birthdate != nil {
		set["birthdate"] = profile.Birthdate.UTC()
	} else {
		update["$unset"] = bson.M{"birthdate": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "role": domain.RoleTrainee}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetConfiguration updates whichever configuration flags are non-nil.
func (r *mongoUserRepository) SetConfiguration(ctx context.Context, id primitive.ObjectID, workoutConfigured, assessmentConfigured *bool) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if workoutConfigured != nil {
		set["workoutConfigured"] = *workoutConfigured
	}
	if assessmentConfigured != nil {
		set["assessmentConfigured"] = *assessmentConfigured
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "role": domain.RoleTrainee}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the account document only.
func (r *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Provisional trainees have no email.
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
		{
			// One owner per trainer code; trainees share their trainer's code.
			Keys: bson.D{{Key: "trainerCode", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": domain.RoleTrainer}),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "trainerCode", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
