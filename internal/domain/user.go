package domain

import (
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/roster"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between account kinds. Fixed at creation.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleTrainee
}

// User represents an account in the system (either a Trainer or a Trainee).
//
// Trainers and trainees share the TrainerCode field: a trainer's code is
// generated once at registration and never changes, a trainee's is a copy
// entered at registration. Roster membership is equality of the two strings;
// there is no trainer-id back reference.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	TrainerCode  string             `bson:"trainerCode" json:"trainerCode"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`

	// --- Trainee-specific ---
	Goal                 string            `bson:"goal,omitempty" json:"goal,omitempty"`
	Birthdate            *time.Time        `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	Gender               anthropometry.Sex `bson:"gender,omitempty" json:"gender,omitempty"`
	WorkoutConfigured    bool              `bson:"workoutConfigured" json:"workoutConfigured"`
	AssessmentConfigured bool              `bson:"assessmentConfigured" json:"assessmentConfigured"`
	// Provisional trainees were entered by a trainer and have no credentials.
	Provisional bool `bson:"provisional,omitempty" json:"provisional,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsTrainee() bool {
	return u.Role == RoleTrainee
}

// Status is recomputed from the two configuration flags on every call.
func (u *User) Status() roster.Status {
	return roster.DeriveStatus(u.WorkoutConfigured, u.AssessmentConfigured)
}

// BirthYear is nil when no birthdate was recorded.
func (u *User) BirthYear() *int {
	if u.Birthdate == nil || u.Birthdate.IsZero() {
		return nil
	}
	y := u.Birthdate.Year()
	return &y
}

// LinkCode returns the code used for roster matching.
func LinkCode(u User) string {
	return u.TrainerCode
}

// TraineeProfile is the editable part of a trainee record. TrainerCode is
// deliberately absent: the link is never rewritten after registration.
type TraineeProfile struct {
	Name      string
	Goal      string
	Birthdate *time.Time
	Gender    anthropometry.Sex
}
