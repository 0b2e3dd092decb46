// internal/api/trainer_handler.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type TrainerHandler struct {
	trainerService    service.TrainerService
	assessmentService service.AssessmentService
	metrics           *metrics.Metrics
	log               *logger.Logger
}

func NewTrainerHandler(
	trainerService service.TrainerService,
	assessmentService service.AssessmentService,
	m *metrics.Metrics,
	log *logger.Logger,
) *TrainerHandler {
	return &TrainerHandler{
		trainerService:    trainerService,
		assessmentService: assessmentService,
		metrics:           m,
		log:               log.With("handler", "TrainerHandler"),
	}
}

// --- DTOs ---

type TrainerCodeResponse struct {
	TrainerCode string `json:"trainerCode"`
}

// TraineeProfileRequest is used both for provisional trainees and for
// profile edits. There is no trainer code field: the link cannot be edited.
type TraineeProfileRequest struct {
	Name      string     `json:"name" binding:"required"`
	Goal      string     `json:"goal"`
	Birthdate *time.Time `json:"birthdate"`
	Gender    string     `json:"gender"`
}

func (r TraineeProfileRequest) profile() domain.TraineeProfile {
	return domain.TraineeProfile{
		Name:      r.Name,
		Goal:      r.Goal,
		Birthdate: r.Birthdate,
		Gender:    anthropometry.ParseSex(r.Gender),
	}
}

type ConfigurationRequest struct {
	WorkoutConfigured    *bool `json:"workoutConfigured"`
	AssessmentConfigured *bool `json:"assessmentConfigured"`
}

type ExerciseEntryRequest struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	Sets       int    `json:"sets" binding:"min=0"` // 0 takes the catalog default
	Reps       string `json:"reps"`
	Notes      string `json:"notes"`
}

type CreateWorkoutRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Exercises   []ExerciseEntryRequest `json:"exercises" binding:"required,min=1,dive"`
}

type WorkoutStatusRequest struct {
	Status domain.WorkoutStatus `json:"status" binding:"required,oneof=completed cancelled"`
}

// CreateAssessmentRequest holds the measured inputs only. Derived values
// (BMI, body fat, fat and lean mass) are computed by the server.
type CreateAssessmentRequest struct {
	Anamnesis      domain.Anamnesis           `json:"anamnesis"`
	ParQ           domain.ParQ                `json:"parq"`
	Weight         float64                    `json:"weight" binding:"required,gt=0"`
	Height         float64                    `json:"height" binding:"required,gt=0"`
	Circumferences domain.Circumferences      `json:"circumferences"`
	Protocol       string                     `json:"protocol"`
	Skinfolds      anthropometry.Skinfolds    `json:"skinfolds"`
	Bioimpedance   anthropometry.Bioimpedance `json:"bioimpedance"`
	Notes          string                     `json:"notes"`
}

func (r CreateAssessmentRequest) assessment() domain.Assessment {
	return domain.Assessment{
		Anamnesis:      r.Anamnesis,
		ParQ:           r.ParQ,
		WeightKg:       r.Weight,
		HeightCm:       r.Height,
		Circumferences: r.Circumferences,
		Protocol:       anthropometry.ParseProtocol(r.Protocol),
		Skinfolds:      r.Skinfolds,
		Bioimpedance:   r.Bioimpedance,
		Notes:          r.Notes,
	}
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Roster ---

// GetTrainerCode godoc
// @Summary Get the trainer's permanent code
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TrainerCodeResponse
// @Router /trainer/code [get]
func (h *TrainerHandler) GetTrainerCode(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	code, err := h.trainerService.TrainerCode(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve trainer code.")
		return
	}
	c.JSON(http.StatusOK, TrainerCodeResponse{TrainerCode: code})
}

// GetTrainerCodeQR godoc
// @Summary Get the trainer code as a QR image
// @Tags Trainer
// @Produce png
// @Security BearerAuth
// @Param size query int false "Image size in pixels (128-1024)"
// @Success 200 {file} binary
// @Router /trainer/code/qr [get]
func (h *TrainerHandler) GetTrainerCodeQR(c *gin.Context) {
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			abortWithError(c, http.StatusBadRequest, "size must be an integer between 128 and 1024")
			return
		}
		size = n
	}

	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	code, err := h.trainerService.TrainerCode(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve trainer code.")
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		h.log.Error("failed to encode trainer code QR", "trainerID", trainerID.Hex(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to render QR code.")
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// GetRoster godoc
// @Summary List the trainer's trainees
// @Description Trainees whose stored code equals the trainer's code exactly, each with derived status.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /trainer/trainees [get]
func (h *TrainerHandler) GetRoster(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	trainees, err := h.trainerService.Roster(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve trainees.")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(trainees))
}

// StreamRoster godoc
// @Summary Live roster
// @Description Server-sent "roster" events, each carrying the full roster, sent on connect and after every change.
// @Tags Trainer
// @Produce text/event-stream
// @Security BearerAuth
// @Router /trainer/trainees/stream [get]
func (h *TrainerHandler) StreamRoster(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	sub, err := h.trainerService.WatchRoster(c.Request.Context(), trainerID)
	if err != nil {
		if _, known := statusFor(err); known {
			respondError(c, err, "")
			return
		}
		h.log.Error("failed to open roster watch", "trainerID", trainerID.Hex(), "error", err)
		abortWithError(c, http.StatusServiceUnavailable, "Live roster is unavailable.")
		return
	}
	defer sub.Close()
	defer h.metrics.SubscriptionOpened("roster")()

	streamSubscription(c, h.log, sub, "roster", MapUsersToResponse)
}

// --- Trainee management ---

// AddProvisionalTrainee godoc
// @Summary Add a trainee by hand
// @Description Creates a trainee without credentials carrying the trainer's code.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainee body TraineeProfileRequest true "Trainee profile"
// @Success 201 {object} UserResponse
// @Router /trainer/trainees [post]
func (h *TrainerHandler) AddProvisionalTrainee(c *gin.Context) {
	var req TraineeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	trainee, err := h.trainerService.AddProvisionalTrainee(c.Request.Context(), trainerID, req.profile())
	if err != nil {
		respondError(c, err, "Failed to add trainee.")
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(trainee))
}

// GetTrainee godoc
// @Summary Get one of the trainer's trainees
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 200 {object} UserResponse
// @Failure 403 {object} gin.H "Trainee is not on this trainer's roster"
// @Router /trainer/trainees/{traineeId} [get]
func (h *TrainerHandler) GetTrainee(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	trainee, err := h.trainerService.GetTrainee(c.Request.Context(), trainerID, traineeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve trainee.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(trainee))
}

// UpdateTrainee godoc
// @Summary Edit a trainee's profile
// @Description The trainee's trainer code cannot be changed.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Param trainee body TraineeProfileRequest true "Trainee profile"
// @Success 200 {object} UserResponse
// @Router /trainer/trainees/{traineeId} [put]
func (h *TrainerHandler) UpdateTrainee(c *gin.Context) {
	var req TraineeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	trainee, err := h.trainerService.UpdateTrainee(c.Request.Context(), trainerID, traineeID, req.profile())
	if err != nil {
		respondError(c, err, "Failed to update trainee.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(trainee))
}

// DeleteTrainee godoc
// @Summary Delete a trainee account
// @Description Only the account is removed; workouts and assessments remain.
// @Tags Trainer
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 204
// @Router /trainer/trainees/{traineeId} [delete]
func (h *TrainerHandler) DeleteTrainee(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	if err := h.trainerService.DeleteTrainee(c.Request.Context(), trainerID, traineeID); err != nil {
		respondError(c, err, "Failed to delete trainee.")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetConfiguration godoc
// @Summary Set a trainee's configuration flags
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Param flags body ConfigurationRequest true "Flags to set; omitted flags are unchanged"
// @Success 200 {object} UserResponse
// @Router /trainer/trainees/{traineeId}/configuration [put]
func (h *TrainerHandler) SetConfiguration(c *gin.Context) {
	var req ConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	trainee, err := h.trainerService.SetConfiguration(c.Request.Context(), trainerID, traineeID, req.WorkoutConfigured, req.AssessmentConfigured)
	if err != nil {
		respondError(c, err, "Failed to update configuration.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(trainee))
}

// SendAssessmentReminder godoc
// @Summary Remind a trainee that an assessment is due
// @Tags Trainer
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 202
// @Router /trainer/trainees/{traineeId}/assessment-reminder [post]
func (h *TrainerHandler) SendAssessmentReminder(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	if err := h.trainerService.SendAssessmentReminder(c.Request.Context(), trainerID, traineeID); err != nil {
		respondError(c, err, "Failed to send reminder.")
		return
	}
	c.Status(http.StatusAccepted)
}

// --- Workouts ---

// CreateWorkout godoc
// @Summary Create a workout for a trainee
// @Description Marks the trainee's workout configuration as done.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 201 {object} WorkoutResponse
// @Router /trainer/trainees/{traineeId}/workouts [post]
func (h *TrainerHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}

	entries := make([]domain.ExerciseEntry, len(req.Exercises))
	for i, e := range req.Exercises {
		entries[i] = domain.ExerciseEntry{
			ExerciseID: e.ExerciseID,
			Name:       e.Name,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Notes:      e.Notes,
		}
	}
	workout, err := h.trainerService.CreateWorkout(c.Request.Context(), trainerID, traineeID, service.WorkoutInput{
		Name:        req.Name,
		Description: req.Description,
		Exercises:   entries,
	})
	if err != nil {
		respondError(c, err, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List a trainee's workouts, newest first
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 200 {array} WorkoutResponse
// @Router /trainer/trainees/{traineeId}/workouts [get]
func (h *TrainerHandler) ListWorkouts(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	workouts, err := h.trainerService.ListWorkouts(c.Request.Context(), trainerID, traineeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// SetWorkoutStatus godoc
// @Summary Complete or cancel a scheduled workout
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param status body WorkoutStatusRequest true "Target status"
// @Success 200 {object} WorkoutResponse
// @Failure 409 {object} gin.H "Workout is not scheduled"
// @Router /trainer/workouts/{workoutId}/status [put]
func (h *TrainerHandler) SetWorkoutStatus(c *gin.Context) {
	var req WorkoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.trainerService.SetWorkoutStatus(c.Request.Context(), trainerID, workoutID, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Trainer
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 204
// @Router /trainer/workouts/{workoutId} [delete]
func (h *TrainerHandler) DeleteWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.trainerService.DeleteWorkout(c.Request.Context(), trainerID, workoutID); err != nil {
		respondError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Assessments ---

// CreateAssessment godoc
// @Summary Record a physical assessment
// @Description BMI and body fat are derived at save time; the record is never edited afterwards.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Param assessment body CreateAssessmentRequest true "Measurements"
// @Success 201 {object} AssessmentResponse
// @Router /trainer/trainees/{traineeId}/assessments [post]
func (h *TrainerHandler) CreateAssessment(c *gin.Context) {
	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	evaluated, err := h.assessmentService.Create(c.Request.Context(), trainerID, traineeID, req.assessment())
	if err != nil {
		respondError(c, err, "Failed to store assessment.")
		return
	}
	c.JSON(http.StatusCreated, MapEvaluatedAssessmentToResponse(evaluated))
}

// ListTraineeAssessments godoc
// @Summary A trainee's assessment history, newest first
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 200 {array} AssessmentResponse
// @Router /trainer/trainees/{traineeId}/assessments [get]
func (h *TrainerHandler) ListTraineeAssessments(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	traineeID, ok := pathObjectID(c, "traineeId")
	if !ok {
		return
	}
	assessments, err := h.assessmentService.ListForTrainee(c.Request.Context(), trainerID, traineeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve assessments.")
		return
	}
	c.JSON(http.StatusOK, MapAssessmentsToResponse(assessments))
}

// ListAssessments godoc
// @Summary Every assessment this trainer recorded, newest first
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AssessmentResponse
// @Router /trainer/assessments [get]
func (h *TrainerHandler) ListAssessments(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	assessments, err := h.assessmentService.ListForTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve assessments.")
		return
	}
	c.JSON(http.StatusOK, MapAssessmentsToResponse(assessments))
}

// RequestPhotoUpload godoc
// @Summary Get a presigned URL to upload an assessment photo
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assessmentId path string true "Assessment ID"
// @Param photo body PhotoUploadRequest true "Content type (image/jpeg, image/png, image/heic, image/webp)"
// @Success 201 {object} PhotoResponse
// @Router /trainer/assessments/{assessmentId}/photos [post]
func (h *TrainerHandler) RequestPhotoUpload(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	assessmentID, ok := pathObjectID(c, "assessmentId")
	if !ok {
		return
	}
	upload, err := h.assessmentService.RequestPhotoUpload(c.Request.Context(), trainerID, assessmentID, req.ContentType)
	if err != nil {
		respondError(c, err, "Failed to prepare photo upload.")
		return
	}
	resp := mapPhoto(upload.Photo)
	resp.UploadURL = upload.UploadURL
	resp.ExpiresIn = int(upload.ExpiresIn.Seconds())
	c.JSON(http.StatusCreated, resp)
}

// ListPhotos godoc
// @Summary List an assessment's photos with presigned download URLs
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param assessmentId path string true "Assessment ID"
// @Success 200 {array} PhotoResponse
// @Router /trainer/assessments/{assessmentId}/photos [get]
func (h *TrainerHandler) ListPhotos(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	assessmentID, ok := pathObjectID(c, "assessmentId")
	if !ok {
		return
	}
	links, err := h.assessmentService.ListPhotos(c.Request.Context(), trainerID, assessmentID)
	if err != nil {
		respondError(c, err, "Failed to retrieve photos.")
		return
	}
	out := make([]PhotoResponse, len(links))
	for i, l := range links {
		out[i] = mapPhoto(l.Photo)
		out[i].DownloadURL = l.DownloadURL
	}
	c.JSON(http.StatusOK, out)
}

// DeletePhoto godoc
// @Summary Remove a photo from an assessment
// @Tags Trainer
// @Security BearerAuth
// @Param assessmentId path string true "Assessment ID"
// @Param photoId path string true "Photo ID"
// @Success 204
// @Router /trainer/assessments/{assessmentId}/photos/{photoId} [delete]
func (h *TrainerHandler) DeletePhoto(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	assessmentID, ok := pathObjectID(c, "assessmentId")
	if !ok {
		return
	}
	photoID, ok := pathObjectID(c, "photoId")
	if !ok {
		return
	}
	if err := h.assessmentService.DeletePhoto(c.Request.Context(), trainerID, assessmentID, photoID); err != nil {
		respondError(c, err, "Failed to delete photo.")
		return
	}
	c.Status(http.StatusNoContent)
}
