package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/api"
	"amfit/coach-app/internal/config"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/notify"
	"amfit/coach-app/internal/repository/mongo"
	"amfit/coach-app/internal/roster"
	"amfit/coach-app/internal/service"
	"amfit/coach-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Coach App API
// @version 1.0
// @description API for personal trainers, their trainees, workouts and physical assessments.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded.", "address", cfg.Server.Address, "skinfold_policy", cfg.Assessment.SkinfoldPolicy)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("Could not connect to MongoDB", "error", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.", "database", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB, log)
		log.Info("Index creation process completed.")
	}()

	m := metrics.New()

	// --- Storage and live feed ---
	photoStorage, err := storage.NewS3Storage(context.Background(), cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to initialize S3 storage", "error", err)
	}

	feed := notify.NewDisabledFeed()
	if cfg.Redis.Enabled {
		feed, err = notify.NewRedisFeed(context.Background(), cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err)
		}
		log.Info("Live notification feed connected.", "addr", cfg.Redis.Addr)
	} else {
		log.Warn("Redis disabled; notification streams are unavailable.")
	}
	defer func() {
		if err := feed.Close(); err != nil {
			log.Error("Failed to close notification feed", "error", err)
		}
	}()

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	assessmentRepo := mongo.NewMongoAssessmentRepository(appDB)
	photoRepo := mongo.NewMongoPhotoRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)

	// --- Services ---
	notificationService := service.NewNotificationService(notificationRepo, feed, m, log)
	exerciseService := service.NewExerciseService(exerciseRepo, log)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := exerciseService.SeedCatalog(seedCtx); err != nil {
		log.Error("Failed to seed exercise catalog", "error", err)
	} else {
		log.Info("Exercise catalog ready.", "exercises", n)
	}
	cancelSeed()

	services := api.Services{
		Auth: service.NewAuthService(userRepo, notificationService,
			roster.NewGenerator(cfg.Roster.CodeMaxAttempts), cfg.JWT.Secret, cfg.JWT.Expiration, m, log),
		Trainer: service.NewTrainerService(userRepo, workoutRepo, exerciseRepo, notificationService, log),
		Trainee: service.NewTraineeService(userRepo, workoutRepo, assessmentRepo, notificationService, log),
		Assessment: service.NewAssessmentService(userRepo, assessmentRepo, photoRepo, photoStorage,
			anthropometry.ParseMissingSitePolicy(cfg.Assessment.SkinfoldPolicy), cfg.S3.PresignExpiry, m, log),
		Exercise:     exerciseService,
		Notification: notificationService,
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(cfg.Server.AllowedOrigins, m, log)
	health := api.NewHealthHandler(map[string]api.Pinger{
		"mongo": mongo.Pinger{Client: dbClient},
		"redis": feed,
	})
	api.SetupRoutes(router, cfg.JWT.Secret, services, health, m, log)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: SSE streams stay open for the life of the connection.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server exiting.")
}
