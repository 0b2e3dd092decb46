package repository

import (
	"context"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/live"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// RosterSubscription delivers the full roster each time it changes.
type RosterSubscription = live.Subscription[[]domain.User]

// UserRepository defines the interface for interacting with account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetTrainerByCode resolves a code to the trainer that owns it.
	GetTrainerByCode(ctx context.Context, code string) (*domain.User, error)
	TrainerCodeExists(ctx context.Context, code string) (bool, error)
	// GetTraineesByTrainerCode returns every trainee whose code equals code
	// exactly. An unresolved code yields an empty slice, not an error.
	GetTraineesByTrainerCode(ctx context.Context, code string) ([]domain.User, error)
	// WatchTraineesByTrainerCode emits the roster once, then again after every change.
	WatchTraineesByTrainerCode(ctx context.Context, code string) (*RosterSubscription, error)
	UpdateTraineeProfile(ctx context.Context, id primitive.ObjectID, profile domain.TraineeProfile) error
	SetConfiguration(ctx context.Context, id primitive.ObjectID, workoutConfigured, assessmentConfigured *bool) error
	// Delete removes only the account document. Dependent records are left in place.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for the exercise library.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error)
	// Seed inserts catalog entries whose slug is not stored yet.
	Seed(ctx context.Context, exercises []domain.Exercise) (int, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Workout, error)
	GetByTrainerAndTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Workout, error)
	// UpdateStatus moves a workout out of from; ErrUpdateFailed if it is no longer in that state.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from domain.WorkoutStatus, workout *domain.Workout) error
	Delete(ctx context.Context, id, trainerID primitive.ObjectID) error
}

// AssessmentRepository is append-only: there is no update method.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.Assessment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assessment, error)
	GetByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Assessment, error)
	GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Assessment, error)
}

// PhotoRepository stores metadata for photos attached to assessments.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.AssessmentPhoto) (primitive.ObjectID, error)
	GetByAssessment(ctx context.Context, assessmentID primitive.ObjectID) ([]domain.AssessmentPhoto, error)
	// Delete removes one photo of the assessment and returns what was stored.
	Delete(ctx context.Context, assessmentID, photoID primitive.ObjectID) (*domain.AssessmentPhoto, error)
}

// NotificationRepository defines the interface for notification data.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error)
	GetByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error
}
