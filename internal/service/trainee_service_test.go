package service

import (
	"context"
	"testing"
	"time"

	"amfit/coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyTrainer(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(testCode)
	linked := f.seedTrainee("bia", testCode)
	orphan := f.seedTrainee("zed", "pers-2024-abc123")

	got, err := f.trainee.MyTrainer(context.Background(), linked.ID)
	require.NoError(t, err)
	assert.Equal(t, trainer.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	_, err = f.trainee.MyTrainer(context.Background(), orphan.ID)
	assert.ErrorIs(t, err, ErrUnresolvedTrainerCode)

	_, err = f.trainee.MyTrainer(context.Background(), trainer.ID)
	assert.ErrorIs(t, err, ErrTraineeNotFound)
}

func TestCompleteWorkout(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(testCode)
	trainee := f.seedTrainee("bia", testCode)
	someoneElse := f.seedTrainee("zed", testCode)
	ctx := context.Background()
	f.trainee.now = func() time.Time { return fixedNow }

	workout, err := f.trainer.CreateWorkout(ctx, trainer.ID, trainee.ID, WorkoutInput{
		Name: "Legs", Exercises: []domain.ExerciseEntry{{ExerciseID: "agachamento"}},
	})
	require.NoError(t, err)

	_, err = f.trainee.CompleteWorkout(ctx, trainee.ID, workout.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = f.trainee.CompleteWorkout(ctx, trainee.ID, workout.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = f.trainee.CompleteWorkout(ctx, someoneElse.ID, workout.ID, 4, "")
	assert.ErrorIs(t, err, ErrWorkoutAccessDenied)

	done, err := f.trainee.CompleteWorkout(ctx, trainee.ID, workout.ID, 4, "heavy today")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutCompleted, done.Status)
	require.NotNil(t, done.Rating)
	assert.Equal(t, 4, *done.Rating)
	assert.Equal(t, fixedNow, *done.CompletedAt)

	notes := f.notifications.All()
	require.Len(t, notes, 1)
	assert.Equal(t, trainer.ID, notes[0].RecipientID)
	assert.Equal(t, domain.NotificationWorkoutCompleted, notes[0].Type)
	assert.Equal(t, "heavy today", notes[0].Comments)
	require.NotNil(t, notes[0].Rating)
	assert.Equal(t, 4, *notes[0].Rating)

	_, err = f.trainee.CompleteWorkout(ctx, trainee.ID, workout.ID, 5, "again")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Len(t, f.notifications.All(), 1)

	mine, err := f.trainee.MyWorkouts(ctx, trainee.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.WorkoutCompleted, mine[0].Status)
}

func TestCompleteWorkout_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(testCode)
	trainee := f.seedTrainee("bia", testCode)
	ctx := context.Background()

	workout, err := f.trainer.CreateWorkout(ctx, trainer.ID, trainee.ID, WorkoutInput{
		Name: "Legs", Exercises: []domain.ExerciseEntry{{Name: "Lunge", Sets: 3, Reps: "10"}},
	})
	require.NoError(t, err)

	f.notifications.CreateError = assert.AnError
	done, err := f.trainee.CompleteWorkout(ctx, trainee.ID, workout.ID, 3, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutCompleted, done.Status)
}
