package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus tracks the lifecycle of a workout.
type WorkoutStatus string

const (
	WorkoutScheduled WorkoutStatus = "scheduled"
	WorkoutCompleted WorkoutStatus = "completed"
	WorkoutCancelled WorkoutStatus = "cancelled"
)

// CanTransitionTo allows only scheduled -> completed and scheduled -> cancelled.
func (s WorkoutStatus) CanTransitionTo(next WorkoutStatus) bool {
	return s == WorkoutScheduled && (next == WorkoutCompleted || next == WorkoutCancelled)
}

// ExerciseEntry is one line of a workout.
type ExerciseEntry struct {
	ExerciseID string `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"` // catalog slug, optional
	Name       string `bson:"name" json:"name"`
	Sets       int    `bson:"sets" json:"sets"`
	Reps       string `bson:"reps" json:"reps"` // free-text range, e.g. "8-12"
	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Workout is authored by a trainer for one trainee.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	TraineeID   primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Exercises   []ExerciseEntry    `bson:"exercises" json:"exercises"`
	Status      WorkoutStatus      `bson:"status" json:"status"`
	// Completion feedback from the trainee.
	Rating      *int       `bson:"rating,omitempty" json:"rating,omitempty"`
	Comments    string     `bson:"comments,omitempty" json:"comments,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}
