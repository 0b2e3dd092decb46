// Package testutil provides in-memory implementations of the repository,
// feed and storage interfaces for service and handler tests.
//
// Each fake records the calls it receives and exposes an error field per
// method so tests can drive failure paths.
package testutil

import (
	"context"
	"sync"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/live"
	"amfit/coach-app/internal/repository"
	"amfit/coach-app/internal/roster"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository implements repository.UserRepository in memory.
type MockUserRepository struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]domain.User
	order   []primitive.ObjectID
	changed chan struct{}
	clock   time.Time

	// Call tracking
	CreateCalls            []domain.User
	TrainerCodeExistsCalls []string
	WatchCalls             []string

	// Error injection. CreateErrors is consumed one entry per Create call.
	CreateErrors           []error
	GetError               error
	TrainerCodeExistsError error
	GetTraineesError       error
	WatchError             error
	UpdateError            error
	DeleteError            error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[primitive.ObjectID]domain.User),
		changed: make(chan struct{}),
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// notifyLocked wakes every roster watcher. Caller holds mu.
func (m *MockUserRepository) notifyLocked() {
	close(m.changed)
	m.changed = make(chan struct{})
}

// Seed stores u as-is, assigning an ID and timestamps when missing.
func (m *MockUserRepository) Seed(u domain.User) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seedLocked(u)
}

func (m *MockUserRepository) seedLocked(u domain.User) domain.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		m.clock = m.clock.Add(time.Second)
		u.CreatedAt = m.clock
		u.UpdatedAt = m.clock
	}
	if _, ok := m.users[u.ID]; !ok {
		m.order = append(m.order, u.ID)
	}
	m.users[u.ID] = u
	m.notifyLocked()
	return u
}

// Stored returns the stored copy of id.
func (m *MockUserRepository) Stored(id primitive.ObjectID) (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, *user)
	if len(m.CreateErrors) > 0 {
		err := m.CreateErrors[0]
		m.CreateErrors = m.CreateErrors[1:]
		if err != nil {
			return primitive.NilObjectID, err
		}
	}
	for _, u := range m.users {
		if user.Email != "" && u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		if user.IsTrainer() && u.IsTrainer() && u.TrainerCode == user.TrainerCode {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}

	user.ID = primitive.NilObjectID
	user.CreatedAt = time.Time{}
	stored := m.seedLocked(*user)
	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = stored.UpdatedAt
	return user.ID, nil
}

func (m *MockUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, id := range m.order {
		if u, ok := m.users[id]; ok && match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email != "" && u.Email == email })
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

func (m *MockUserRepository) GetTrainerByCode(ctx context.Context, code string) (*domain.User, error) {
	if code == "" {
		return nil, repository.ErrNotFound
	}
	return m.find(func(u domain.User) bool { return u.IsTrainer() && u.TrainerCode == code })
}

func (m *MockUserRepository) TrainerCodeExists(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	m.TrainerCodeExistsCalls = append(m.TrainerCodeExistsCalls, code)
	m.mu.Unlock()
	if m.TrainerCodeExistsError != nil {
		return false, m.TrainerCodeExistsError
	}
	_, err := m.GetTrainerByCode(ctx, code)
	return err == nil, nil
}

func (m *MockUserRepository) GetTraineesByTrainerCode(ctx context.Context, code string) ([]domain.User, error) {
	if m.GetTraineesError != nil {
		return nil, m.GetTraineesError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trainees := make([]domain.User, 0, len(m.order))
	for _, id := range m.order {
		if u, ok := m.users[id]; ok && u.IsTrainee() {
			trainees = append(trainees, u)
		}
	}
	return roster.Match(code, trainees, domain.LinkCode), nil
}

// WatchTraineesByTrainerCode emits a snapshot now and after every mutation.
func (m *MockUserRepository) WatchTraineesByTrainerCode(ctx context.Context, code string) (*repository.RosterSubscription, error) {
	m.mu.Lock()
	m.WatchCalls = append(m.WatchCalls, code)
	m.mu.Unlock()
	if m.WatchError != nil {
		return nil, m.WatchError
	}

	return live.Start(ctx, func(ctx context.Context, emit func([]domain.User) bool) error {
		for {
			m.mu.RLock()
			changed := m.changed
			m.mu.RUnlock()

			trainees, err := m.GetTraineesByTrainerCode(ctx, code)
			if err != nil {
				return err
			}
			if !emit(trainees) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-changed:
			}
		}
	}), nil
}

func (m *MockUserRepository) update(id primitive.ObjectID, fn func(*domain.User)) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || !u.IsTrainee() {
		return repository.ErrNotFound
	}
	fn(&u)
	m.clock = m.clock.Add(time.Second)
	u.UpdatedAt = m.clock
	m.users[id] = u
	m.notifyLocked()
	return nil
}

func (m *MockUserRepository) UpdateTraineeProfile(ctx context.Context, id primitive.ObjectID, profile domain.TraineeProfile) error {
	return m.update(id, func(u *domain.User) {
		u.Name = profile.Name
		u.Goal = profile.Goal
		u.Birthdate = profile.Birthdate
		u.Gender = profile.Gender
	})
}

func (m *MockUserRepository) SetConfiguration(ctx context.Context, id primitive.ObjectID, workoutConfigured, assessmentConfigured *bool) error {
	return m.update(id, func(u *domain.User) {
		if workoutConfigured != nil {
			u.WorkoutConfigured = *workoutConfigured
		}
		if assessmentConfigured != nil {
			u.AssessmentConfigured = *assessmentConfigured
		}
	})
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.notifyLocked()
	return nil
}
