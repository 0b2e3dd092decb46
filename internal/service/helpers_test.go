package service

import (
	"context"
	"testing"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/testutil"

	"github.com/stretchr/testify/require"
)

const testCode = "PERS-2024-ABC123"

// fixture wires every service against in-memory fakes.
type fixture struct {
	users         *testutil.MockUserRepository
	workouts      *testutil.MockWorkoutRepository
	assessments   *testutil.MockAssessmentRepository
	photos        *testutil.MockPhotoRepository
	notifications *testutil.MockNotificationRepository
	exercises     *testutil.MockExerciseRepository
	feed          *testutil.MockFeed
	storage       *testutil.MockPhotoStorage

	notifier   NotificationService
	trainer    *trainerService
	trainee    *traineeService
	assessment *assessmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Nop()
	f := &fixture{
		users:         testutil.NewMockUserRepository(),
		workouts:      testutil.NewMockWorkoutRepository(),
		assessments:   testutil.NewMockAssessmentRepository(),
		photos:        testutil.NewMockPhotoRepository(),
		notifications: testutil.NewMockNotificationRepository(),
		exercises:     testutil.NewMockExerciseRepository(),
		feed:          testutil.NewMockFeed(),
		storage:       testutil.NewMockPhotoStorage(),
	}
	f.notifier = NewNotificationService(f.notifications, f.feed, nil, log)
	f.trainer = NewTrainerService(f.users, f.workouts, f.exercises, f.notifier, log).(*trainerService)
	f.trainee = NewTraineeService(f.users, f.workouts, f.assessments, f.notifier, log).(*traineeService)
	f.assessment = NewAssessmentService(f.users, f.assessments, f.photos, f.storage,
		anthropometry.RequireAll, 10*time.Minute, nil, log).(*assessmentService)

	_, err := NewExerciseService(f.exercises, log).SeedCatalog(context.Background())
	require.NoError(t, err)
	return f
}

func (f *fixture) seedTrainer(code string) domain.User {
	return f.users.Seed(domain.User{
		Name:         "Coach",
		Email:        "coach-" + code + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleTrainer,
		TrainerCode:  code,
	})
}

func (f *fixture) seedTrainee(name, code string) domain.User {
	return f.users.Seed(domain.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleTrainee,
		TrainerCode:  code,
	})
}

func ptr[T any](v T) *T { return &v }
