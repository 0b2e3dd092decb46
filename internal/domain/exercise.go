// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the library.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Slug         string             `bson:"slug" json:"id"` // stable identifier referenced by workout entries
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup  string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"`
	VideoURL     string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Instructions []string           `bson:"instructions,omitempty" json:"instructions,omitempty"`
	DefaultSets  int                `bson:"defaultSets,omitempty" json:"defaultSets,omitempty"`
	DefaultReps  string             `bson:"defaultReps,omitempty" json:"defaultReps,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
