package api

import (
	"net/http"
	"time"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services groups what the handlers depend on.
type Services struct {
	Auth         service.AuthService
	Trainer      service.TrainerService
	Trainee      service.TraineeService
	Assessment   service.AssessmentService
	Exercise     service.ExerciseService
	Notification service.NotificationService
}

// NewRouter builds the engine with the cross-cutting middleware installed.
// An empty allowedOrigins list, or one containing "*", allows every origin.
func NewRouter(allowedOrigins []string, m *metrics.Metrics, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLogger(log),
		m.Middleware(),
		corsMiddleware(allowedOrigins),
	)
	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	svc Services,
	health *HealthHandler,
	m *metrics.Metrics,
	log *logger.Logger,
) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercise)
	trainerHandler := NewTrainerHandler(svc.Trainer, svc.Assessment, m, log)
	traineeHandler := NewTraineeHandler(svc.Trainee)
	notificationHandler := NewNotificationHandler(svc.Notification, m, log)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", health.Ping)
	router.GET("/healthz", health.Healthz)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register/trainer", authHandler.RegisterTrainer)
			authGroup.POST("/register/trainee", authHandler.RegisterTrainee)
			authGroup.POST("/login", authHandler.Login)
		}

		// Built-in catalog, readable without an account.
		apiV1.GET("/exercises", exerciseHandler.ListExercises)
		apiV1.GET("/exercises/:id", exerciseHandler.GetExercise)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.DELETE("/me", authHandler.DeleteMe)

		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.ListNotifications)
			notificationGroup.GET("/stream", notificationHandler.StreamNotifications)
			notificationGroup.POST("/:notificationId/read", notificationHandler.MarkRead)
		}

		// --- Trainer Specific Routes ---
		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerApiGroup.GET("/code", trainerHandler.GetTrainerCode)
			trainerApiGroup.GET("/code/qr", trainerHandler.GetTrainerCodeQR)

			// --- Roster ---
			trainerApiGroup.GET("/trainees", trainerHandler.GetRoster)
			trainerApiGroup.GET("/trainees/stream", trainerHandler.StreamRoster)
			trainerApiGroup.POST("/trainees", trainerHandler.AddProvisionalTrainee)
			trainerApiGroup.GET("/trainees/:traineeId", trainerHandler.GetTrainee)
			trainerApiGroup.PUT("/trainees/:traineeId", trainerHandler.UpdateTrainee)
			trainerApiGroup.DELETE("/trainees/:traineeId", trainerHandler.DeleteTrainee)
			trainerApiGroup.PUT("/trainees/:traineeId/configuration", trainerHandler.SetConfiguration)
			trainerApiGroup.POST("/trainees/:traineeId/assessment-reminder", trainerHandler.SendAssessmentReminder)

			// --- Workout Management ---
			trainerApiGroup.POST("/trainees/:traineeId/workouts", trainerHandler.CreateWorkout)
			trainerApiGroup.GET("/trainees/:traineeId/workouts", trainerHandler.ListWorkouts)
			trainerApiGroup.PUT("/workouts/:workoutId/status", trainerHandler.SetWorkoutStatus)
			trainerApiGroup.DELETE("/workouts/:workoutId", trainerHandler.DeleteWorkout)

			// --- Assessments ---
			trainerApiGroup.POST("/trainees/:traineeId/assessments", trainerHandler.CreateAssessment)
			trainerApiGroup.GET("/trainees/:traineeId/assessments", trainerHandler.ListTraineeAssessments)
			trainerApiGroup.GET("/assessments", trainerHandler.ListAssessments)
			trainerApiGroup.POST("/assessments/:assessmentId/photos", trainerHandler.RequestPhotoUpload)
			trainerApiGroup.GET("/assessments/:assessmentId/photos", trainerHandler.ListPhotos)
			trainerApiGroup.DELETE("/assessments/:assessmentId/photos/:photoId", trainerHandler.DeletePhoto)
		}

		// --- Trainee Specific Routes ---
		traineeApiGroup := protected.Group("/trainee")
		traineeApiGroup.Use(RoleMiddleware(domain.RoleTrainee))
		{
			traineeApiGroup.GET("/trainer", traineeHandler.GetMyTrainer)
			traineeApiGroup.GET("/workouts", traineeHandler.GetMyWorkouts)
			traineeApiGroup.POST("/workouts/:workoutId/complete", traineeHandler.CompleteWorkout)
			traineeApiGroup.GET("/assessments", traineeHandler.GetMyAssessments)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "route not found")
	})
}
