package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/notify"
	"amfit/coach-app/internal/roster"
	"amfit/coach-app/internal/service"
	"amfit/coach-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret"

type testServer struct {
	router        *gin.Engine
	users         *testutil.MockUserRepository
	notifications *testutil.MockNotificationRepository
	metrics       *metrics.Metrics
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, feed notify.Feed, checks map[string]Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	m := metrics.New()

	users := testutil.NewMockUserRepository()
	workouts := testutil.NewMockWorkoutRepository()
	assessments := testutil.NewMockAssessmentRepository()
	notifications := testutil.NewMockNotificationRepository()
	exercises := testutil.NewMockExerciseRepository()

	notifier := service.NewNotificationService(notifications, feed, m, log)
	exerciseService := service.NewExerciseService(exercises, log)
	_, err := exerciseService.SeedCatalog(context.Background())
	require.NoError(t, err)

	svc := Services{
		Auth:    service.NewAuthService(users, notifier, roster.NewGenerator(3), testSecret, time.Hour, m, log),
		Trainer: service.NewTrainerService(users, workouts, exercises, notifier, log),
		Trainee: service.NewTraineeService(users, workouts, assessments, notifier, log),
		Assessment: service.NewAssessmentService(users, assessments, testutil.NewMockPhotoRepository(),
			testutil.NewMockPhotoStorage(), anthropometry.RequireAll, 5*time.Minute, m, log),
		Exercise:     exerciseService,
		Notification: notifier,
	}
	if checks == nil {
		checks = map[string]Pinger{}
	}

	router := NewRouter(nil, m, log)
	SetupRoutes(router, testSecret, svc, NewHealthHandler(checks), m, log)
	return &testServer{router: router, users: users, notifications: notifications, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[LoginResponse](t, w).Token
}

func (s *testServer) registerTrainer(t *testing.T, email string) (UserResponse, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register/trainer", "", RegisterTrainerRequest{
		Name: "Coach", Email: email, Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[UserResponse](t, w), s.login(t, email, "secret1")
}

func (s *testServer) registerTrainee(t *testing.T, name, code string) (UserResponse, string) {
	t.Helper()
	birth := time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC)
	email := name + "@example.com"
	w := s.do(t, http.MethodPost, "/api/v1/auth/register/trainee", "", RegisterTraineeRequest{
		Name: name, Email: email, Password: "secret1", TrainerCode: code, Birthdate: &birth, Gender: "male",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[UserResponse](t, w), s.login(t, email, "secret1")
}

// streamRecorder lets gin's Stream run against a recorder.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }
