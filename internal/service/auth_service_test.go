package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/repository"
	"amfit/coach-app/internal/roster"
	"amfit/coach-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// zeroReader yields zero bytes forever, so every generated suffix is "000000".
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func newAuth(users *testutil.MockUserRepository, notifier NotificationService, codes *roster.Generator) AuthService {
	return NewAuthService(users, notifier, codes, testSecret, time.Hour, nil, logger.Nop())
}

func TestRegisterTrainer_IssuesCode(t *testing.T) {
	users := testutil.NewMockUserRepository()
	auth := newAuth(users, nil, nil)

	user, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{
		Name: "Ana", Email: " Ana@Example.com ", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, user.Role)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, roster.ValidCode(user.TrainerCode), user.TrainerCode)
	assert.Empty(t, user.PasswordHash)

	stored, ok := users.Stored(user.ID)
	require.True(t, ok)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.Equal(t, user.TrainerCode, stored.TrainerCode)
}

func TestRegisterTrainer_RetriesTakenCode(t *testing.T) {
	users := testutil.NewMockUserRepository()
	stamp := func() time.Time { return fixedNow }

	first, err := roster.GenerateCode(fixedNow, zeroReader{})
	require.NoError(t, err)
	users.Seed(domain.User{Name: "Old", Email: "old@example.com", PasswordHash: "x", Role: domain.RoleTrainer, TrainerCode: first})

	randomness := io.MultiReader(bytes.NewReader(make([]byte, 12)), bytes.NewReader(bytes.Repeat([]byte{1}, 12)))
	codes := &roster.Generator{Rand: randomness, Now: stamp, MaxAttempts: 3}
	auth := newAuth(users, nil, codes)

	user, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEqual(t, first, user.TrainerCode)
	assert.Len(t, users.TrainerCodeExistsCalls, 2)
}

func TestRegisterTrainer_FailsLoudlyWhenCodesExhausted(t *testing.T) {
	users := testutil.NewMockUserRepository()
	stamp := func() time.Time { return fixedNow }
	taken, err := roster.GenerateCode(fixedNow, zeroReader{})
	require.NoError(t, err)
	users.Seed(domain.User{Name: "Old", Email: "old@example.com", PasswordHash: "x", Role: domain.RoleTrainer, TrainerCode: taken})

	auth := newAuth(users, nil, &roster.Generator{Rand: zeroReader{}, Now: stamp, MaxAttempts: 4})

	_, err = auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	assert.ErrorIs(t, err, roster.ErrCodeSpaceExhausted)
	assert.Len(t, users.TrainerCodeExistsCalls, 4)
	assert.Empty(t, users.CreateCalls)
}

func TestRegisterTrainer_RetriesDuplicateKeyOnInsert(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.CreateErrors = []error{repository.ErrDuplicateKey}
	auth := newAuth(users, nil, roster.NewGenerator(3))

	user, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Len(t, users.CreateCalls, 2)
	assert.Equal(t, user.TrainerCode, users.CreateCalls[1].TrainerCode)
}

func TestRegisterTrainer_InsertCollisionsShareAttemptBudget(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.CreateErrors = []error{
		repository.ErrDuplicateKey, repository.ErrDuplicateKey, repository.ErrDuplicateKey,
		repository.ErrDuplicateKey, repository.ErrDuplicateKey,
	}
	auth := newAuth(users, nil, roster.NewGenerator(3))

	_, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	assert.ErrorIs(t, err, roster.ErrCodeSpaceExhausted)
	assert.Len(t, users.TrainerCodeExistsCalls, 3)
	assert.Len(t, users.CreateCalls, 3)
}

func TestRegisterTrainer_TakenCodesAndCollisionsShareAttemptBudget(t *testing.T) {
	users := testutil.NewMockUserRepository()
	stamp := func() time.Time { return fixedNow }
	taken, err := roster.GenerateCode(fixedNow, zeroReader{})
	require.NoError(t, err)
	users.Seed(domain.User{Name: "Old", Email: "old@example.com", PasswordHash: "x", Role: domain.RoleTrainer, TrainerCode: taken})
	users.CreateErrors = []error{repository.ErrDuplicateKey}

	// taken, free but collides on insert, free
	randomness := io.MultiReader(
		bytes.NewReader(make([]byte, 12)),
		bytes.NewReader(bytes.Repeat([]byte{1}, 12)),
		bytes.NewReader(bytes.Repeat([]byte{2}, 12)),
	)
	auth := newAuth(users, nil, &roster.Generator{Rand: randomness, Now: stamp, MaxAttempts: 3})

	user, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Len(t, users.TrainerCodeExistsCalls, 3)
	require.Len(t, users.CreateCalls, 2)
	assert.NotEqual(t, users.CreateCalls[0].TrainerCode, user.TrainerCode)
}

func TestRegisterTrainer_DuplicateEmail(t *testing.T) {
	users := testutil.NewMockUserRepository()
	users.Seed(domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.RoleTrainee, TrainerCode: testCode})
	auth := newAuth(users, nil, nil)

	_, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterTrainee(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantErr      error
		wantNotified bool
	}{
		{name: "resolving code notifies trainer", code: testCode, wantNotified: true},
		{name: "unresolved code is accepted silently", code: "PERS-2099-NOBODY"},
		{name: "lowercase code is stored verbatim", code: "pers-2024-abc123"},
		{name: "malformed code is accepted", code: "hello"},
		{name: "empty code rejected", code: "", wantErr: ErrTrainerCodeRequired},
		{name: "blank code rejected", code: "   ", wantErr: ErrTrainerCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			trainer := f.seedTrainer(testCode)
			auth := newAuth(f.users, f.notifier, nil)

			user, err := auth.RegisterTrainee(context.Background(), TraineeRegistration{
				Name: "Bia", Email: "bia@example.com", Password: "secret", TrainerCode: tt.code,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, user.TrainerCode)
			assert.False(t, user.WorkoutConfigured)
			assert.False(t, user.AssessmentConfigured)

			notes := f.notifications.All()
			if tt.wantNotified {
				require.Len(t, notes, 1)
				assert.Equal(t, trainer.ID, notes[0].RecipientID)
				assert.Equal(t, domain.NotificationNewStudent, notes[0].Type)
				assert.Equal(t, "Bia", notes[0].TraineeName)
				assert.Len(t, f.feed.PublishedTo(trainer.ID.Hex()), 1)
			} else {
				assert.Empty(t, notes)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	users := testutil.NewMockUserRepository()
	auth := newAuth(users, nil, nil)
	registered, err := auth.RegisterTrainee(context.Background(), TraineeRegistration{
		Name: "Bia", Email: "bia@example.com", Password: "secret", TrainerCode: testCode,
	})
	require.NoError(t, err)

	t.Run("success carries role", func(t *testing.T) {
		token, user, err := auth.Login(context.Background(), "BIA@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Empty(t, user.PasswordHash)

		claims, err := auth.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTrainee, claims.Role)
		assert.Equal(t, registered.ID.Hex(), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(context.Background(), "bia@example.com", "nope")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login(context.Background(), "who@example.com", "secret")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("provisional trainee cannot log in", func(t *testing.T) {
		users.Seed(domain.User{Name: "Cid", Email: "cid@example.com", Role: domain.RoleTrainee, TrainerCode: testCode, Provisional: true})
		_, _, err := auth.Login(context.Background(), "cid@example.com", "")
		assert.Error(t, err)
		_, _, err = auth.Login(context.Background(), "cid@example.com", "anything")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestParseToken_RejectsForeignSecret(t *testing.T) {
	users := testutil.NewMockUserRepository()
	auth := newAuth(users, nil, nil)
	_, err := auth.RegisterTrainer(context.Background(), TrainerRegistration{Name: "Ana", Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	token, _, err := auth.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ParseToken("garbage", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount_DoesNotCascade(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(testCode)
	trainee := f.seedTrainee("bia", testCode)
	_, err := f.trainer.CreateWorkout(context.Background(), trainer.ID, trainee.ID, WorkoutInput{
		Name:      "Upper A",
		Exercises: []domain.ExerciseEntry{{ExerciseID: "supino-reto"}},
	})
	require.NoError(t, err)

	auth := newAuth(f.users, f.notifier, nil)
	require.NoError(t, auth.DeleteAccount(context.Background(), trainee.ID))

	_, err = auth.GetAccount(context.Background(), trainee.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	workouts, err := f.workouts.GetByTrainee(context.Background(), trainee.ID)
	require.NoError(t, err)
	assert.Len(t, workouts, 1)

	assert.ErrorIs(t, auth.DeleteAccount(context.Background(), trainee.ID), ErrUserNotFound)
}
