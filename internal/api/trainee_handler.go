package api

import (
	"net/http"

	"amfit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// TraineeHandler serves the trainee's own view.
type TraineeHandler struct {
	traineeService service.TraineeService
}

func NewTraineeHandler(traineeService service.TraineeService) *TraineeHandler {
	return &TraineeHandler{traineeService: traineeService}
}

// CompleteWorkoutRequest is the trainee's feedback on a finished workout.
type CompleteWorkoutRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments" binding:"max=1000"`
}

// GetMyTrainer godoc
// @Summary Resolve the trainee's trainer code
// @Tags Trainee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "unresolved trainer code"
// @Router /trainee/trainer [get]
func (h *TraineeHandler) GetMyTrainer(c *gin.Context) {
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	trainer, err := h.traineeService.MyTrainer(c.Request.Context(), traineeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve trainer.")
		return
	}
	resp := MapUserToResponse(trainer)
	resp.Email = "" // trainees see the name and code only
	c.JSON(http.StatusOK, resp)
}

// GetMyWorkouts godoc
// @Summary The trainee's workouts, newest first
// @Tags Trainee
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutResponse
// @Router /trainee/workouts [get]
func (h *TraineeHandler) GetMyWorkouts(c *gin.Context) {
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	workouts, err := h.traineeService.MyWorkouts(c.Request.Context(), traineeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// CompleteWorkout godoc
// @Summary Mark a scheduled workout as completed
// @Description Stores the rating and comments and notifies the trainer.
// @Tags Trainee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param feedback body CompleteWorkoutRequest true "Feedback"
// @Success 200 {object} WorkoutResponse
// @Failure 409 {object} gin.H "Workout is not scheduled"
// @Router /trainee/workouts/{workoutId}/complete [post]
func (h *TraineeHandler) CompleteWorkout(c *gin.Context) {
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.traineeService.CompleteWorkout(c.Request.Context(), traineeID, workoutID, req.Rating, req.Comments)
	if err != nil {
		respondError(c, err, "Failed to complete workout.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GetMyAssessments godoc
// @Summary The trainee's assessment history, newest first
// @Tags Trainee
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AssessmentResponse
// @Router /trainee/assessments [get]
func (h *TraineeHandler) GetMyAssessments(c *gin.Context) {
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	assessments, err := h.traineeService.MyAssessments(c.Request.Context(), traineeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve assessments.")
		return
	}
	c.JSON(http.StatusOK, MapAssessmentsToResponse(assessments))
}
