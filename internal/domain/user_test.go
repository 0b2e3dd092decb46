package domain

import (
	"testing"
	"time"

	"amfit/coach-app/internal/roster"

	"github.com/stretchr/testify/assert"
)

func TestUser_StatusIsDerivedOnRead(t *testing.T) {
	u := User{Role: RoleTrainee}
	assert.Equal(t, roster.StatusPendingSetup, u.Status())

	u.WorkoutConfigured = true
	assert.Equal(t, roster.StatusPendingSetup, u.Status())

	u.AssessmentConfigured = true
	assert.Equal(t, roster.StatusActive, u.Status())
}

func TestUser_BirthYear(t *testing.T) {
	u := User{}
	assert.Nil(t, u.BirthYear())

	bd := time.Date(1992, time.November, 30, 0, 0, 0, 0, time.UTC)
	u.Birthdate = &bd
	if assert.NotNil(t, u.BirthYear()) {
		assert.Equal(t, 1992, *u.BirthYear())
	}
}

func TestWorkoutStatus_OneWayTransitions(t *testing.T) {
	assert.True(t, WorkoutScheduled.CanTransitionTo(WorkoutCompleted))
	assert.True(t, WorkoutScheduled.CanTransitionTo(WorkoutCancelled))
	assert.False(t, WorkoutScheduled.CanTransitionTo(WorkoutScheduled))
	assert.False(t, WorkoutCompleted.CanTransitionTo(WorkoutScheduled))
	assert.False(t, WorkoutCancelled.CanTransitionTo(WorkoutScheduled))
	assert.False(t, WorkoutCompleted.CanTransitionTo(WorkoutCancelled))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleTrainer.Valid())
	assert.True(t, RoleTrainee.Valid())
	assert.False(t, Role("client").Valid())
}
