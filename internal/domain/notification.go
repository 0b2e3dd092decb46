package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationWorkoutCompleted NotificationType = "workout_completed"
	NotificationNewStudent       NotificationType = "new_student"
	NotificationAssessmentDue    NotificationType = "assessment_due"
)

// Notification is addressed to exactly one account.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	Type        NotificationType   `bson:"type" json:"type"`
	Title       string             `bson:"title" json:"title"`
	Message     string             `bson:"message" json:"message"`
	TraineeName string             `bson:"traineeName,omitempty" json:"traineeName,omitempty"`
	Rating      *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	Comments    string             `bson:"comments,omitempty" json:"comments,omitempty"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
