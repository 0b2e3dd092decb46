package api

import (
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/roster"
	"amfit/coach-app/internal/service"
)

// UserResponse excludes sensitive info like password hash. Status is derived
// on every read and only present for trainees.
type UserResponse struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Email                string            `json:"email,omitempty"`
	Role                 domain.Role       `json:"role"`
	TrainerCode          string            `json:"trainerCode"`
	CreatedAt            time.Time         `json:"createdAt"`
	Instagram            string            `json:"instagram,omitempty"`
	Goal                 string            `json:"goal,omitempty"`
	Birthdate            *time.Time        `json:"birthdate,omitempty"`
	Gender               anthropometry.Sex `json:"gender,omitempty"`
	WorkoutConfigured    *bool             `json:"workoutConfigured,omitempty"`
	AssessmentConfigured *bool             `json:"assessmentConfigured,omitempty"`
	Status               roster.Status     `json:"status,omitempty"`
	Provisional          bool              `json:"provisional,omitempty"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	resp := UserResponse{
		ID:          user.ID.Hex(),
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		TrainerCode: user.TrainerCode,
		CreatedAt:   user.CreatedAt,
		Instagram:   user.Instagram,
		Goal:        user.Goal,
		Birthdate:   user.Birthdate,
		Gender:      user.Gender,
		Provisional: user.Provisional,
	}
	if user.IsTrainee() {
		workout, assessment := user.WorkoutConfigured, user.AssessmentConfigured
		resp.WorkoutConfigured = &workout
		resp.AssessmentConfigured = &assessment
		resp.Status = user.Status()
	}
	return resp
}

// MapUsersToResponse converts a slice of domain.User to UserResponse DTOs.
func MapUsersToResponse(users []domain.User) []UserResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = MapUserToResponse(&users[i])
	}
	return userResponses
}

type WorkoutResponse struct {
	ID          string                 `json:"id"`
	TrainerID   string                 `json:"trainerId"`
	TraineeID   string                 `json:"traineeId"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Exercises   []domain.ExerciseEntry `json:"exercises"`
	Status      domain.WorkoutStatus   `json:"status"`
	Rating      *int                   `json:"rating,omitempty"`
	Comments    string                 `json:"comments,omitempty"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []domain.ExerciseEntry{}
	}
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		TrainerID:   w.TrainerID.Hex(),
		TraineeID:   w.TraineeID.Hex(),
		Name:        w.Name,
		Description: w.Description,
		Exercises:   exercises,
		Status:      w.Status,
		Rating:      w.Rating,
		Comments:    w.Comments,
		CompletedAt: w.CompletedAt,
		CreatedAt:   w.CreatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	out := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		out[i] = MapWorkoutToResponse(&workouts[i])
	}
	return out
}

// AssessmentResponse carries the stored record plus the BMI band, which is
// recomputed from the stored BMI on every read.
type AssessmentResponse struct {
	domain.Assessment
	BMIClass           anthropometry.BMIClass `json:"bmiClass,omitempty"`
	BodyFatUnavailable string                 `json:"bodyFatUnavailable,omitempty"`
}

func MapAssessmentToResponse(a *domain.Assessment) AssessmentResponse {
	resp := AssessmentResponse{Assessment: *a}
	if a.BMI != nil {
		resp.BMIClass = anthropometry.ClassifyBMI(*a.BMI)
	}
	return resp
}

func MapEvaluatedAssessmentToResponse(a *service.EvaluatedAssessment) AssessmentResponse {
	resp := MapAssessmentToResponse(&a.Assessment)
	resp.BMIClass = a.BMIClass
	resp.BodyFatUnavailable = a.BodyFatUnavailable
	return resp
}

func MapAssessmentsToResponse(assessments []domain.Assessment) []AssessmentResponse {
	out := make([]AssessmentResponse, len(assessments))
	for i := range assessments {
		out[i] = MapAssessmentToResponse(&assessments[i])
	}
	return out
}

type PhotoResponse struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessmentId"`
	ContentType  string    `json:"contentType"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UploadURL    string    `json:"uploadUrl,omitempty"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	ExpiresIn    int       `json:"expiresIn,omitempty"` // seconds
}

func mapPhoto(p domain.AssessmentPhoto) PhotoResponse {
	return PhotoResponse{
		ID:           p.ID.Hex(),
		AssessmentID: p.AssessmentID.Hex(),
		ContentType:  p.ContentType,
		UploadedAt:   p.UploadedAt,
	}
}

type NotificationResponse struct {
	ID          string                  `json:"id"`
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	TraineeName string                  `json:"traineeName,omitempty"`
	Rating      *int                    `json:"rating,omitempty"`
	Comments    string                  `json:"comments,omitempty"`
	Read        bool                    `json:"read"`
	CreatedAt   time.Time               `json:"createdAt"`
}

func MapNotificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID.Hex(),
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		TraineeName: n.TraineeName,
		Rating:      n.Rating,
		Comments:    n.Comments,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func MapNotificationsToResponse(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i := range ns {
		out[i] = MapNotificationToResponse(&ns[i])
	}
	return out
}
