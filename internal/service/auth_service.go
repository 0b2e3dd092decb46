package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/repository"
	"amfit/coach-app/internal/roster"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrMissingFields        = errors.New("name, email and password are required")
	ErrTrainerCodeRequired  = errors.New("trainer code is required")
	ErrUserNotFound         = errors.New("user not found")
)

// TrainerRegistration is the input of RegisterTrainer.
type TrainerRegistration struct {
	Name      string
	Email     string
	Password  string
	Instagram string
}

// TraineeRegistration is the input of RegisterTrainee. TrainerCode is stored
// exactly as given.
type TraineeRegistration struct {
	Name        string
	Email       string
	Password    string
	TrainerCode string
	Goal        string
	Birthdate   *time.Time
	Gender      anthropometry.Sex
}

// Claims is the JWT payload. The role travels with the token so handlers
// never have to look it up.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterTrainer(ctx context.Context, in TrainerRegistration) (*domain.User, error)
	RegisterTrainee(ctx context.Context, in TraineeRegistration) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	ParseToken(token string) (*Claims, error)
	GetAccount(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// DeleteAccount removes only the account document.
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	notifications NotificationService
	codes         *roster.Generator
	jwtSecret     string
	jwtExpiration time.Duration
	metrics       *metrics.Metrics
	log           *logger.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	notifications NotificationService,
	codes *roster.Generator,
	jwtSecret string,
	jwtExpiration time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	if codes == nil {
		codes = roster.NewGenerator(roster.DefaultMaxAttempts)
	}
	return &authService{
		userRepo:      userRepo,
		notifications: notifications,
		codes:         codes,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		metrics:       m,
		log:           log.With("service", "AuthService"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ensureEmailFree returns ErrUserAlreadyExists when email is taken.
func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// RegisterTrainer creates a trainer account with a freshly issued code. A
// candidate code is checked before use; an insert that still collides on the
// unique code index draws a new candidate. At most MaxAttempts candidates are
// tried in total.
func (s *authService) RegisterTrainer(ctx context.Context, in TrainerRegistration) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// Store checks and inserts share one budget of MaxAttempts candidates.
	remaining := s.codes.MaxAttempts
	for remaining > 0 {
		checked := 0
		exists := func(ctx context.Context, code string) (bool, error) {
			checked++
			s.metrics.TrainerCodeChecked()
			return s.userRepo.TrainerCodeExists(ctx, code)
		}
		gen := *s.codes
		gen.MaxAttempts = remaining
		code, err := gen.Next(ctx, exists)
		remaining -= checked
		if err != nil {
			if errors.Is(err, roster.ErrCodeSpaceExhausted) {
				break
			}
			return nil, err
		}

		user := &domain.User{
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			PasswordHash: hashed,
			Role:         domain.RoleTrainer,
			TrainerCode:  code,
			Instagram:    strings.TrimSpace(in.Instagram),
		}
		_, err = s.userRepo.Create(ctx, user)
		if err == nil {
			s.log.Info("trainer registered", "userID", user.ID.Hex(), "trainerCode", code)
			user.PasswordHash = ""
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		// Either the email or the code lost a race.
		if err := s.ensureEmailFree(ctx, email); err != nil {
			return nil, err
		}
		s.log.Warn("trainer code collided on insert, regenerating", "remaining", remaining, "trainerCode", code)
	}

	s.metrics.TrainerCodeExhausted()
	s.log.Error("trainer code space exhausted", "email", email, "attempts", s.codes.MaxAttempts)
	return nil, fmt.Errorf("%w after %d attempts", roster.ErrCodeSpaceExhausted, s.codes.MaxAttempts)
}

// RegisterTrainee creates a trainee linked by the given code. The code is not
// required to resolve; when it does, the trainer is told about the new student.
func (s *authService) RegisterTrainee(ctx context.Context, in TraineeRegistration) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if strings.TrimSpace(in.TrainerCode) == "" {
		return nil, ErrTrainerCodeRequired
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleTrainee,
		TrainerCode:  in.TrainerCode,
		Goal:         in.Goal,
		Birthdate:    in.Birthdate,
		Gender:       in.Gender,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""

	s.announceNewStudent(ctx, user)
	return user, nil
}

func (s *authService) announceNewStudent(ctx context.Context, trainee *domain.User) {
	trainer, err := s.userRepo.GetTrainerByCode(ctx, trainee.TrainerCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("trainee registered with unresolved trainer code", "userID", trainee.ID.Hex(), "trainerCode", trainee.TrainerCode)
		} else {
			s.log.Error("failed to resolve trainer code", "trainerCode", trainee.TrainerCode, "error", err)
		}
		return
	}

	notifyQuietly(ctx, s.notifications, s.log, &domain.Notification{
		RecipientID: trainer.ID,
		Type:        domain.NotificationNewStudent,
		Title:       "New student",
		Message:     fmt.Sprintf("%s joined using your trainer code.", trainee.Name),
		TraineeName: trainee.Name,
	})
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	// Provisional trainees have no hash and can never log in.
	if user.PasswordHash == "" {
		return "", nil, ErrAuthenticationFailed
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		s.log.Error("failed to sign token", "userID", user.ID.Hex(), "error", err)
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "coach-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates a signed token and returns its claims.
func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, s.jwtSecret)
}

// ParseToken validates tokenString against secret. Only HMAC-signed tokens
// carrying a known role are accepted.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) GetAccount(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	err := s.userRepo.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err == nil {
		s.log.Info("account deleted", "userID", userID.Hex())
	}
	return err
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
