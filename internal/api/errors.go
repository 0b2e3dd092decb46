package api

import (
	"errors"
	"net/http"

	"amfit/coach-app/internal/notify"
	"amfit/coach-app/internal/roster"
	"amfit/coach-app/internal/service"
	"amfit/coach-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service sentinels to HTTP status codes. Order matters
// only for errors that wrap more than one sentinel.
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrMissingFields, http.StatusBadRequest},
	{service.ErrTrainerCodeRequired, http.StatusBadRequest},
	{service.ErrInvalidWorkout, http.StatusBadRequest},
	{service.ErrNameRequired, http.StatusBadRequest},
	{service.ErrInvalidRating, http.StatusBadRequest},
	{service.ErrInvalidMeasurement, http.StatusBadRequest},
	{service.ErrMissingBodyMeasures, http.StatusBadRequest},
	{service.ErrExerciseNotFound, http.StatusBadRequest},
	{storage.ErrUnsupportedContentType, http.StatusBadRequest},

	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},

	{service.ErrTraineeNotManaged, http.StatusForbidden},
	{service.ErrWorkoutAccessDenied, http.StatusForbidden},
	{service.ErrAssessmentAccessDenied, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrTrainerNotFound, http.StatusNotFound},
	{service.ErrTraineeNotFound, http.StatusNotFound},
	{service.ErrWorkoutNotFound, http.StatusNotFound},
	{service.ErrAssessmentNotFound, http.StatusNotFound},
	{service.ErrPhotoNotFound, http.StatusNotFound},
	{service.ErrNotificationNotFound, http.StatusNotFound},
	{service.ErrUnresolvedTrainerCode, http.StatusNotFound},

	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrInvalidStatusTransition, http.StatusConflict},

	{notify.ErrFeedDisabled, http.StatusServiceUnavailable},
	{notify.ErrFeedUnavailable, http.StatusServiceUnavailable},
	{roster.ErrCodeSpaceExhausted, http.StatusServiceUnavailable},
}

// statusFor returns the status mapped to err, if any.
func statusFor(err error) (int, bool) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.status, true
		}
	}
	return 0, false
}

// respondError aborts with the status matching err. Unknown errors become a
// 500 with a generic message; the real error is attached to the context for
// the request logger.
func respondError(c *gin.Context, err error, fallback string) {
	if status, ok := statusFor(err); ok {
		abortWithError(c, status, err.Error())
		return
	}
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, fallback)
}
