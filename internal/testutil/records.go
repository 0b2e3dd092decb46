package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockWorkoutRepository implements repository.WorkoutRepository in memory.
type MockWorkoutRepository struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.Workout

	UpdateStatusCalls []domain.WorkoutStatus

	CreateError       error
	GetError          error
	UpdateStatusError error
	DeleteError       error
}

var _ repository.WorkoutRepository = (*MockWorkoutRepository)(nil)

func NewMockWorkoutRepository() *MockWorkoutRepository {
	return &MockWorkoutRepository{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (m *MockWorkoutRepository) Create(ctx context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	if m.CreateError != nil {
		return primitive.NilObjectID, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = primitive.NewObjectID()
	if w.Status == "" {
		w.Status = domain.WorkoutScheduled
	}
	if w.Exercises == nil {
		w.Exercises = []domain.ExerciseEntry{}
	}
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	m.workouts[w.ID] = *w
	return w.ID, nil
}

func (m *MockWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (m *MockWorkoutRepository) list(match func(domain.Workout) bool) ([]domain.Workout, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Workout{}
	for _, w := range m.workouts {
		if match(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockWorkoutRepository) GetByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Workout, error) {
	return m.list(func(w domain.Workout) bool { return w.TraineeID == traineeID })
}

func (m *MockWorkoutRepository) GetByTrainerAndTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) ([]domain.Workout, error) {
	return m.list(func(w domain.Workout) bool { return w.TrainerID == trainerID && w.TraineeID == traineeID })
}

func (m *MockWorkoutRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from domain.WorkoutStatus, w *domain.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, w.Status)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	stored, ok := m.workouts[id]
	if !ok || stored.Status != from {
		return repository.ErrUpdateFailed
	}
	stored.Status = w.Status
	if w.Rating != nil {
		stored.Rating = w.Rating
	}
	if w.Comments != "" {
		stored.Comments = w.Comments
	}
	if w.CompletedAt != nil {
		stored.CompletedAt = w.CompletedAt
	}
	stored.UpdatedAt = time.Now().UTC()
	m.workouts[id] = stored
	return nil
}

func (m *MockWorkoutRepository) Delete(ctx context.Context, id, trainerID primitive.ObjectID) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok || w.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(m.workouts, id)
	return nil
}

// MockAssessmentRepository implements repository.AssessmentRepository in memory.
type MockAssessmentRepository struct {
	mu          sync.Mutex
	assessments []domain.Assessment

	CreateCalls []domain.Assessment

	CreateError error
	GetError    error
}

var _ repository.AssessmentRepository = (*MockAssessmentRepository)(nil)

func NewMockAssessmentRepository() *MockAssessmentRepository {
	return &MockAssessmentRepository{}
}

func (m *MockAssessmentRepository) Create(ctx context.Context, a *domain.Assessment) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, *a)
	if m.CreateError != nil {
		return primitive.NilObjectID, m.CreateError
	}
	a.ID = primitive.NewObjectID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.assessments = append(m.assessments, *a)
	return a.ID, nil
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assessment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assessments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockAssessmentRepository) list(match func(domain.Assessment) bool) ([]domain.Assessment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Assessment{}
	for i := len(m.assessments) - 1; i >= 0; i-- {
		if match(m.assessments[i]) {
			out = append(out, m.assessments[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockAssessmentRepository) GetByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Assessment, error) {
	return m.list(func(a domain.Assessment) bool { return a.TraineeID == traineeID })
}

func (m *MockAssessmentRepository) GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Assessment, error) {
	return m.list(func(a domain.Assessment) bool { return a.TrainerID == trainerID })
}

// MockPhotoRepository implements repository.PhotoRepository in memory.
type MockPhotoRepository struct {
	mu     sync.Mutex
	photos []domain.AssessmentPhoto

	CreateError error
	DeleteError error
}

var _ repository.PhotoRepository = (*MockPhotoRepository)(nil)

func NewMockPhotoRepository() *MockPhotoRepository {
	return &MockPhotoRepository{}
}

func (m *MockPhotoRepository) Create(ctx context.Context, p *domain.AssessmentPhoto) (primitive.ObjectID, error) {
	if m.CreateError != nil {
		return primitive.NilObjectID, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.UploadedAt = time.Now().UTC()
	m.photos = append(m.photos, *p)
	return p.ID, nil
}

func (m *MockPhotoRepository) GetByAssessment(ctx context.Context, assessmentID primitive.ObjectID) ([]domain.AssessmentPhoto, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.AssessmentPhoto{}
	for _, p := range m.photos {
		if p.AssessmentID == assessmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockPhotoRepository) Delete(ctx context.Context, assessmentID, photoID primitive.ObjectID) (*domain.AssessmentPhoto, error) {
	if m.DeleteError != nil {
		return nil, m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.photos {
		if p.ID == photoID && p.AssessmentID == assessmentID {
			m.photos = append(m.photos[:i], m.photos[i+1:]...)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

// MockNotificationRepository implements repository.NotificationRepository in memory.
type MockNotificationRepository struct {
	mu            sync.Mutex
	notifications []domain.Notification

	CreateError error
}

var _ repository.NotificationRepository = (*MockNotificationRepository)(nil)

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error) {
	if m.CreateError != nil {
		return primitive.NilObjectID, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now().UTC()
	m.notifications = append(m.notifications, *n)
	return n.ID, nil
}

// All returns every stored notification in insertion order.
func (m *MockNotificationRepository) All() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.notifications...)
}

func (m *MockNotificationRepository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Notification{}
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].RecipientID == recipientID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].RecipientID == recipientID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// MockExerciseRepository implements repository.ExerciseRepository in memory.
type MockExerciseRepository struct {
	mu        sync.Mutex
	exercises map[string]domain.Exercise

	SeedError error
}

var _ repository.ExerciseRepository = (*MockExerciseRepository)(nil)

func NewMockExerciseRepository() *MockExerciseRepository {
	return &MockExerciseRepository{exercises: make(map[string]domain.Exercise)}
}

func (m *MockExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Exercise, 0, len(m.exercises))
	for _, e := range m.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MuscleGroup != out[j].MuscleGroup {
			return out[i].MuscleGroup < out[j].MuscleGroup
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MockExerciseRepository) GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[slug]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *MockExerciseRepository) Seed(ctx context.Context, exercises []domain.Exercise) (int, error) {
	if m.SeedError != nil {
		return 0, m.SeedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, e := range exercises {
		if _, ok := m.exercises[e.Slug]; ok {
			continue
		}
		e.ID = primitive.NewObjectID()
		m.exercises[e.Slug] = e
		inserted++
	}
	return inserted, nil
}
