package api

import (
	"errors"
	"net/http"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ExerciseResponse is the DTO for returning exercise details. ID is the
// catalog slug that workout entries reference.
type ExerciseResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	MuscleGroup  string   `json:"muscleGroup,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	DefaultSets  int      `json:"defaultSets,omitempty"`
	DefaultReps  string   `json:"defaultReps,omitempty"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:           ex.Slug,
		Name:         ex.Name,
		Description:  ex.Description,
		MuscleGroup:  ex.MuscleGroup,
		VideoURL:     ex.VideoURL,
		Instructions: ex.Instructions,
		DefaultSets:  ex.DefaultSets,
		DefaultReps:  ex.DefaultReps,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// ListExercises godoc
// @Summary List the built-in exercise library
// @Tags Exercises
// @Produce json
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise godoc
// @Summary Get one exercise by its catalog id
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise id (slug)"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	ex, err := h.exerciseService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(ex))
}
