package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutAccessDenied     = errors.New("access denied to this workout")
	ErrInvalidStatusTransition = errors.New("invalid workout status transition")
	ErrInvalidWorkout          = errors.New("workout needs a name and exercises with a name and at least one set")
	ErrNameRequired            = errors.New("name is required")
)

// WorkoutInput is what a trainer submits to create a workout.
type WorkoutInput struct {
	Name        string
	Description string
	Exercises   []domain.ExerciseEntry
}

type TrainerService interface {
	// Roster
	TrainerCode(ctx context.Context, trainerID primitive.ObjectID) (string, error)
	Roster(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	// WatchRoster returns a live roster the caller must Close.
	WatchRoster(ctx context.Context, trainerID primitive.ObjectID) (*repository.RosterSubscription, error)

	// Trainee management
	AddProvisionalTrainee(ctx context.Context, trainerID primitive.ObjectID, profile domain.TraineeProfile) (*domain.User, error)
	GetTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) (*domain.User, error)
	UpdateTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID, profile domain.TraineeProfile) (*domain.User, error)
	DeleteTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) error
	SetConfiguration(ctx context.Context, trainerID, traineeID primitive.ObjectID, workoutConfigured, assessmentConfigured *bool) (*domain.User, error)
	SendAssessmentReminder(ctx context.Context, trainerID, traineeID primitive.ObjectID) error

	// Workouts
	CreateWorkout(ctx context.Context, trainerID, traineeID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Workout, error)
	SetWorkoutStatus(ctx context.Context, trainerID, workoutID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo      repository.UserRepository
	workoutRepo   repository.WorkoutRepository
	exerciseRepo  repository.ExerciseRepository
	notifications NotificationService
	log           *logger.Logger
	now           func() time.Time
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	notifications NotificationService,
	log *logger.Logger,
) TrainerService {
	return &trainerService{
		userRepo:      userRepo,
		workoutRepo:   workoutRepo,
		exerciseRepo:  exerciseRepo,
		notifications: notifications,
		log:           log.With("service", "TrainerService"),
		now:           time.Now,
	}
}

// === Roster ===

func (s *trainerService) TrainerCode(ctx context.Context, trainerID primitive.ObjectID) (string, error) {
	trainer, err := loadTrainer(ctx, s.userRepo, trainerID)
	if err != nil {
		return "", err
	}
	return trainer.TrainerCode, nil
}

// Roster lists the trainees whose stored code equals the trainer's code.
func (s *trainerService) Roster(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	code, err := s.TrainerCode(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	trainees, err := s.userRepo.GetTraineesByTrainerCode(ctx, code)
	if err != nil {
		return nil, err
	}
	for i := range trainees {
		trainees[i].PasswordHash = ""
	}
	return trainees, nil
}

func (s *trainerService) WatchRoster(ctx context.Context, trainerID primitive.ObjectID) (*repository.RosterSubscription, error) {
	code, err := s.TrainerCode(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.WatchTraineesByTrainerCode(ctx, code)
}

// === Trainee management ===

// AddProvisionalTrainee records a trainee the trainer entered by hand. It
// carries the trainer's code and has no credentials.
func (s *trainerService) AddProvisionalTrainee(ctx context.Context, trainerID primitive.ObjectID, profile domain.TraineeProfile) (*domain.User, error) {
	if strings.TrimSpace(profile.Name) == "" {
		return nil, ErrNameRequired
	}
	trainer, err := loadTrainer(ctx, s.userRepo, trainerID)
	if err != nil {
		return nil, err
	}

	trainee := &domain.User{
		Name:        strings.TrimSpace(profile.Name),
		Role:        domain.RoleTrainee,
		TrainerCode: trainer.TrainerCode,
		Goal:        profile.Goal,
		Birthdate:   profile.Birthdate,
		Gender:      profile.Gender,
		Provisional: true,
	}
	if _, err := s.userRepo.Create(ctx, trainee); err != nil {
		return nil, err
	}
	s.log.Info("provisional trainee created", "trainerID", trainerID.Hex(), "traineeID", trainee.ID.Hex())
	return trainee, nil
}

func (s *trainerService) GetTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) (*domain.User, error) {
	_, trainee, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID)
	return trainee, err
}

// UpdateTrainee edits the profile. The trainee's code is not editable.
func (s *trainerService) UpdateTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID, profile domain.TraineeProfile) (*domain.User, error) {
	if strings.TrimSpace(profile.Name) == "" {
		return nil, ErrNameRequired
	}
	if _, _, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID); err != nil {
		return nil, err
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if err := s.userRepo.UpdateTraineeProfile(ctx, traineeID, profile); err != nil {
		return nil, err
	}
	return s.GetTrainee(ctx, trainerID, traineeID)
}

// DeleteTrainee removes the trainee account only. Workouts, assessments and
// notifications that reference it stay behind.
func (s *trainerService) DeleteTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) error {
	if _, _, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, traineeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTraineeNotFound
		}
		return err
	}
	s.log.Info("trainee deleted", "trainerID", trainerID.Hex(), "traineeID", traineeID.Hex())
	return nil
}

func (s *trainerService) SetConfiguration(ctx context.Context, trainerID, traineeID primitive.ObjectID, workoutConfigured, assessmentConfigured *bool) (*domain.User, error) {
	if _, _, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID); err != nil {
		return nil, err
	}
	if workoutConfigured != nil || assessmentConfigured != nil {
		if err := s.userRepo.SetConfiguration(ctx, traineeID, workoutConfigured, assessmentConfigured); err != nil {
			return nil, err
		}
	}
	return s.GetTrainee(ctx, trainerID, traineeID)
}

func (s *trainerService) SendAssessmentReminder(ctx context.Context, trainerID, traineeID primitive.ObjectID) error {
	trainer, trainee, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID)
	if err != nil {
		return err
	}
	return s.notifications.Notify(ctx, &domain.Notification{
		RecipientID: trainee.ID,
		Type:        domain.NotificationAssessmentDue,
		Title:       "Assessment due",
		Message:     fmt.Sprintf("%s asked you to schedule a new physical assessment.", trainer.Name),
		TraineeName: trainee.Name,
	})
}

// === Workouts ===

// CreateWorkout stores a scheduled workout and marks the trainee's workout
// configuration as done. Entries referencing a catalog exercise inherit its
// name and default sets/reps when left empty.
func (s *trainerService) CreateWorkout(ctx context.Context, trainerID, traineeID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if strings.TrimSpace(in.Name) == "" || len(in.Exercises) == 0 {
		return nil, ErrInvalidWorkout
	}
	_, trainee, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ExerciseEntry, 0, len(in.Exercises))
	for _, e := range in.Exercises {
		entry, err := s.fillFromCatalog(ctx, e)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	workout := &domain.Workout{
		TrainerID:   trainerID,
		TraineeID:   traineeID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Exercises:   entries,
		Status:      domain.WorkoutScheduled,
	}
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}

	if !trainee.WorkoutConfigured {
		configured := true
		if err := s.userRepo.SetConfiguration(ctx, traineeID, &configured, nil); err != nil {
			s.log.Error("failed to mark workout configured", "traineeID", traineeID.Hex(), "error", err)
		}
	}
	return workout, nil
}

func (s *trainerService) fillFromCatalog(ctx context.Context, e domain.ExerciseEntry) (domain.ExerciseEntry, error) {
	if e.ExerciseID != "" {
		ex, err := s.exerciseRepo.GetBySlug(ctx, e.ExerciseID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return e, fmt.Errorf("%w: %s", ErrExerciseNotFound, e.ExerciseID)
		case err != nil:
			return e, err
		}
		if e.Name == "" {
			e.Name = ex.Name
		}
		if e.Sets == 0 {
			e.Sets = ex.DefaultSets
		}
		if e.Reps == "" {
			e.Reps = ex.DefaultReps
		}
	}
	if strings.TrimSpace(e.Name) == "" || e.Sets < 1 {
		return e, ErrInvalidWorkout
	}
	return e, nil
}

func (s *trainerService) ListWorkouts(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Workout, error) {
	if _, _, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID); err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByTrainerAndTrainee(ctx, trainerID, traineeID)
}

func (s *trainerService) ownedWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.TrainerID != trainerID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

// SetWorkoutStatus moves a scheduled workout to completed or cancelled.
func (s *trainerService) SetWorkoutStatus(ctx context.Context, trainerID, workoutID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error) {
	workout, err := s.ownedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}
	return transitionWorkout(ctx, s.workoutRepo, workout, status, s.now(), nil, "")
}

func (s *trainerService) DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error {
	if _, err := s.ownedWorkout(ctx, trainerID, workoutID); err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// transitionWorkout applies a status change guarded by the stored state, so
// two concurrent transitions cannot both succeed.
func transitionWorkout(
	ctx context.Context,
	repo repository.WorkoutRepository,
	workout *domain.Workout,
	next domain.WorkoutStatus,
	now time.Time,
	rating *int,
	comments string,
) (*domain.Workout, error) {
	if !workout.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, workout.Status, next)
	}
	from := workout.Status
	updated := *workout
	updated.Status = next
	updated.Rating = rating
	updated.Comments = comments
	if next == domain.WorkoutCompleted {
		completedAt := now.UTC()
		updated.CompletedAt = &completedAt
	}

	if err := repo.UpdateStatus(ctx, workout.ID, from, &updated); err != nil {
		if errors.Is(err, repository.ErrUpdateFailed) {
			return nil, fmt.Errorf("%w: workout is no longer %s", ErrInvalidStatusTransition, from)
		}
		return nil, err
	}
	return &updated, nil
}
