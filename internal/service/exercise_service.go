package service

import (
	"context"
	"errors"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/repository"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseService exposes the built-in exercise library.
type ExerciseService interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	Get(ctx context.Context, slug string) (*domain.Exercise, error)
	// SeedCatalog stores built-in exercises that are missing and reports how many were added.
	SeedCatalog(ctx context.Context) (int, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	log          *logger.Logger
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, log *logger.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		log:          log.With("service", "ExerciseService"),
	}
}

func (s *exerciseService) List(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

func (s *exerciseService) Get(ctx context.Context, slug string) (*domain.Exercise, error) {
	ex, err := s.exerciseRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return ex, nil
}

func (s *exerciseService) SeedCatalog(ctx context.Context) (int, error) {
	catalog := make([]domain.Exercise, len(builtInExercises))
	copy(catalog, builtInExercises)

	inserted, err := s.exerciseRepo.Seed(ctx, catalog)
	if err != nil {
		return 0, err
	}
	s.log.Info("exercise catalog seeded", "inserted", inserted, "total", len(catalog))
	return inserted, nil
}
