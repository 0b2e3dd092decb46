package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUnresolvedTrainerCode = errors.New("unresolved trainer code")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
)

// TraineeService covers what a trainee can see and do for themselves.
type TraineeService interface {
	// MyTrainer resolves the stored code. ErrUnresolvedTrainerCode when no
	// trainer owns it.
	MyTrainer(ctx context.Context, traineeID primitive.ObjectID) (*domain.User, error)
	MyWorkouts(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Workout, error)
	// CompleteWorkout records feedback and tells the authoring trainer.
	CompleteWorkout(ctx context.Context, traineeID, workoutID primitive.ObjectID, rating int, comments string) (*domain.Workout, error)
	MyAssessments(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Assessment, error)
}

type traineeService struct {
	userRepo       repository.UserRepository
	workoutRepo    repository.WorkoutRepository
	assessmentRepo repository.AssessmentRepository
	notifications  NotificationService
	log            *logger.Logger
	now            func() time.Time
}

func NewTraineeService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	assessmentRepo repository.AssessmentRepository,
	notifications NotificationService,
	log *logger.Logger,
) TraineeService {
	return &traineeService{
		userRepo:       userRepo,
		workoutRepo:    workoutRepo,
		assessmentRepo: assessmentRepo,
		notifications:  notifications,
		log:            log.With("service", "TraineeService"),
		now:            time.Now,
	}
}

func (s *traineeService) loadTrainee(ctx context.Context, traineeID primitive.ObjectID) (*domain.User, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	if !trainee.IsTrainee() {
		return nil, ErrTraineeNotFound
	}
	return trainee, nil
}

func (s *traineeService) MyTrainer(ctx context.Context, traineeID primitive.ObjectID) (*domain.User, error) {
	trainee, err := s.loadTrainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}
	trainer, err := s.userRepo.GetTrainerByCode(ctx, trainee.TrainerCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnresolvedTrainerCode
		}
		return nil, err
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *traineeService) MyWorkouts(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetByTrainee(ctx, traineeID)
}

func (s *traineeService) CompleteWorkout(ctx context.Context, traineeID, workoutID primitive.ObjectID, rating int, comments string) (*domain.Workout, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	trainee, err := s.loadTrainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.TraineeID != traineeID {
		return nil, ErrWorkoutAccessDenied
	}

	updated, err := transitionWorkout(ctx, s.workoutRepo, workout, domain.WorkoutCompleted, s.now(), &rating, comments)
	if err != nil {
		return nil, err
	}

	notifyQuietly(ctx, s.notifications, s.log, &domain.Notification{
		RecipientID: workout.TrainerID,
		Type:        domain.NotificationWorkoutCompleted,
		Title:       "Workout completed",
		Message:     fmt.Sprintf("%s completed %q and rated it %d/5.", trainee.Name, workout.Name, rating),
		TraineeName: trainee.Name,
		Rating:      &rating,
		Comments:    comments,
	})
	return updated, nil
}

func (s *traineeService) MyAssessments(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Assessment, error) {
	return s.assessmentRepo.GetByTrainee(ctx, traineeID)
}
