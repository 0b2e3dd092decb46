package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/repository"
	"amfit/coach-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentAccessDenied = errors.New("access denied to this assessment")
	ErrPhotoNotFound          = errors.New("photo not found")
	ErrInvalidMeasurement     = errors.New("measurements must not be negative")
	ErrMissingBodyMeasures    = errors.New("weight and height are required")
	ErrUploadURLError         = errors.New("failed to generate upload URL")
	ErrDownloadURLError       = errors.New("failed to generate download URL")
)

// EvaluatedAssessment is a stored assessment plus what the calculator had to
// say about it at save time.
type EvaluatedAssessment struct {
	domain.Assessment
	BMIClass anthropometry.BMIClass
	// BodyFatUnavailable explains a missing body-fat value, empty otherwise.
	BodyFatUnavailable string
}

// PhotoUpload is returned when a trainer asks to attach a photo.
type PhotoUpload struct {
	Photo     domain.AssessmentPhoto
	UploadURL string
	ExpiresIn time.Duration
}

// PhotoLink pairs photo metadata with a short-lived download URL.
type PhotoLink struct {
	Photo       domain.AssessmentPhoto
	DownloadURL string
}

type AssessmentService interface {
	// Create runs the anthropometric calculator and stores the result. The
	// record is never updated afterwards.
	Create(ctx context.Context, trainerID, traineeID primitive.ObjectID, a domain.Assessment) (*EvaluatedAssessment, error)
	ListForTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Assessment, error)
	ListForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Assessment, error)
	RequestPhotoUpload(ctx context.Context, trainerID, assessmentID primitive.ObjectID, contentType string) (*PhotoUpload, error)
	ListPhotos(ctx context.Context, trainerID, assessmentID primitive.ObjectID) ([]PhotoLink, error)
	DeletePhoto(ctx context.Context, trainerID, assessmentID, photoID primitive.ObjectID) error
}

type assessmentService struct {
	userRepo       repository.UserRepository
	assessmentRepo repository.AssessmentRepository
	photoRepo      repository.PhotoRepository
	photos         storage.PhotoStorage
	policy         anthropometry.MissingSitePolicy
	presignExpiry  time.Duration
	metrics        *metrics.Metrics
	log            *logger.Logger
	now            func() time.Time
}

func NewAssessmentService(
	userRepo repository.UserRepository,
	assessmentRepo repository.AssessmentRepository,
	photoRepo repository.PhotoRepository,
	photos storage.PhotoStorage,
	policy anthropometry.MissingSitePolicy,
	presignExpiry time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) AssessmentService {
	if presignExpiry <= 0 {
		presignExpiry = storage.DefaultPresignedURLExpiry
	}
	return &assessmentService{
		userRepo:       userRepo,
		assessmentRepo: assessmentRepo,
		photoRepo:      photoRepo,
		photos:         photos,
		policy:         policy,
		presignExpiry:  presignExpiry,
		metrics:        m,
		log:            log.With("service", "AssessmentService"),
		now:            time.Now,
	}
}

func nonNegative(vs ...*float64) bool {
	for _, v := range vs {
		if v != nil && *v < 0 {
			return false
		}
	}
	return true
}

func (s *assessmentService) Create(ctx context.Context, trainerID, traineeID primitive.ObjectID, a domain.Assessment) (*EvaluatedAssessment, error) {
	sf := a.Skinfolds
	if a.WeightKg < 0 || a.HeightCm < 0 ||
		!nonNegative(sf.Pectoral, sf.MidAxillary, sf.Triceps, sf.Subscapular, sf.Abdominal, sf.SupraIliac, sf.Thigh) {
		return nil, ErrInvalidMeasurement
	}
	if a.WeightKg == 0 || a.HeightCm == 0 {
		return nil, ErrMissingBodyMeasures
	}

	_, trainee, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	weight, height := a.WeightKg, a.HeightCm
	res := anthropometry.Evaluate(anthropometry.Input{
		WeightKg:     &weight,
		HeightCm:     &height,
		Protocol:     a.Protocol,
		Skinfolds:    a.Skinfolds,
		Bioimpedance: a.Bioimpedance,
		Sex:          trainee.Gender,
		BirthYear:    trainee.BirthYear(),
		Now:          now,
		Policy:       s.policy,
	})

	a.ID = primitive.NilObjectID
	a.TrainerID = trainerID
	a.TraineeID = traineeID
	a.CreatedAt = now
	a.BMI = res.BMI
	a.BodyFatPercentage = res.BodyFatPercentage
	a.FatMass = res.FatMass
	a.LeanMass = res.LeanMass

	if _, err := s.assessmentRepo.Create(ctx, &a); err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}

	outcome := "unavailable"
	switch {
	case a.BodyFatPercentage != nil && a.Protocol == anthropometry.ProtocolSkinfold7:
		outcome = "computed"
	case a.BodyFatPercentage != nil:
		outcome = "entered"
	}
	s.metrics.AssessmentEvaluated(string(a.Protocol), outcome)

	if !trainee.AssessmentConfigured {
		configured := true
		if err := s.userRepo.SetConfiguration(ctx, traineeID, nil, &configured); err != nil {
			s.log.Error("failed to mark assessment configured", "traineeID", traineeID.Hex(), "error", err)
		}
	}

	out := &EvaluatedAssessment{Assessment: a, BMIClass: res.BMIClass}
	if res.BodyFatErr != nil && a.BodyFatPercentage == nil {
		out.BodyFatUnavailable = res.BodyFatErr.Error()
	}
	s.log.Debug("assessment stored", "assessmentID", a.ID.Hex(), "protocol", a.Protocol, "bodyFat", outcome)
	return out, nil
}

func (s *assessmentService) ListForTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Assessment, error) {
	if _, _, err := ownedTrainee(ctx, s.userRepo, trainerID, traineeID); err != nil {
		return nil, err
	}
	return s.assessmentRepo.GetByTrainee(ctx, traineeID)
}

func (s *assessmentService) ListForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Assessment, error) {
	return s.assessmentRepo.GetByTrainer(ctx, trainerID)
}

func (s *assessmentService) ownedAssessment(ctx context.Context, trainerID, assessmentID primitive.ObjectID) (*domain.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	if a.TrainerID != trainerID {
		return nil, ErrAssessmentAccessDenied
	}
	return a, nil
}

// RequestPhotoUpload records the photo and returns a presigned PUT URL for it.
func (s *assessmentService) RequestPhotoUpload(ctx context.Context, trainerID, assessmentID primitive.ObjectID, contentType string) (*PhotoUpload, error) {
	a, err := s.ownedAssessment(ctx, trainerID, assessmentID)
	if err != nil {
		return nil, err
	}
	key, err := storage.PhotoKey(a.TraineeID.Hex(), a.ID.Hex(), contentType)
	if err != nil {
		return nil, err
	}

	url, err := s.photos.GeneratePresignedUploadURL(ctx, key, contentType, s.presignExpiry)
	if err != nil {
		s.log.Error("presign upload failed", "key", key, "error", err)
		return nil, ErrUploadURLError
	}

	photo := domain.AssessmentPhoto{
		AssessmentID: a.ID,
		TraineeID:    a.TraineeID,
		TrainerID:    trainerID,
		ObjectKey:    key,
		ContentType:  contentType,
	}
	if _, err := s.photoRepo.Create(ctx, &photo); err != nil {
		return nil, err
	}
	return &PhotoUpload{Photo: photo, UploadURL: url, ExpiresIn: s.presignExpiry}, nil
}

func (s *assessmentService) ListPhotos(ctx context.Context, trainerID, assessmentID primitive.ObjectID) ([]PhotoLink, error) {
	if _, err := s.ownedAssessment(ctx, trainerID, assessmentID); err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.GetByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	links := make([]PhotoLink, 0, len(photos))
	for _, p := range photos {
		url, err := s.photos.GeneratePresignedDownloadURL(ctx, p.ObjectKey, s.presignExpiry)
		if err != nil {
			s.log.Error("presign download failed", "key", p.ObjectKey, "error", err)
			return nil, ErrDownloadURLError
		}
		links = append(links, PhotoLink{Photo: p, DownloadURL: url})
	}
	return links, nil
}

// DeletePhoto removes the photo record and then its object. A failed object
// delete is logged only; the record is already gone.
func (s *assessmentService) DeletePhoto(ctx context.Context, trainerID, assessmentID, photoID primitive.ObjectID) error {
	if _, err := s.ownedAssessment(ctx, trainerID, assessmentID); err != nil {
		return err
	}
	photo, err := s.photoRepo.Delete(ctx, assessmentID, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if err := s.photos.DeleteObject(ctx, photo.ObjectKey); err != nil {
		s.log.Warn("photo object left in bucket", "key", photo.ObjectKey, "error", err)
	}
	return nil
}
