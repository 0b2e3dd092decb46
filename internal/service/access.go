package service

import (
	"context"
	"errors"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTrainerNotFound   = errors.New("trainer not found")
	ErrTraineeNotFound   = errors.New("trainee not found")
	ErrTraineeNotManaged = errors.New("trainee is not on this trainer's roster")
)

// loadTrainer fetches trainerID and checks its role.
func loadTrainer(ctx context.Context, users repository.UserRepository, trainerID primitive.ObjectID) (*domain.User, error) {
	trainer, err := users.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, ErrTrainerNotFound
	}
	return trainer, nil
}

// ownedTrainee returns the trainer and the trainee when the trainee's code is
// exactly the trainer's code.
func ownedTrainee(ctx context.Context, users repository.UserRepository, trainerID, traineeID primitive.ObjectID) (*domain.User, *domain.User, error) {
	trainer, err := loadTrainer(ctx, users, trainerID)
	if err != nil {
		return nil, nil, err
	}
	trainee, err := users.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTraineeNotFound
		}
		return nil, nil, err
	}
	if !trainee.IsTrainee() {
		return nil, nil, ErrTraineeNotFound
	}
	if trainee.TrainerCode == "" || trainee.TrainerCode != trainer.TrainerCode {
		return nil, nil, ErrTraineeNotManaged
	}
	trainee.PasswordHash = ""
	return trainer, trainee, nil
}
