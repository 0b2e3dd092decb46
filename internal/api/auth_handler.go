package api

import (
	"net/http"
	"time"

	"amfit/coach-app/internal/anthropometry"
	"amfit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterTrainerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Instagram string `json:"instagram"`
}

// RegisterTraineeRequest carries the trainer code exactly as typed. It is
// not checked against any trainer.
type RegisterTraineeRequest struct {
	Name        string     `json:"name" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=6"`
	TrainerCode string     `json:"trainerCode" binding:"required"`
	Goal        string     `json:"goal"`
	Birthdate   *time.Time `json:"birthdate"`
	Gender      string     `json:"gender"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// RegisterTrainer godoc
// @Summary Register a trainer
// @Description Creates a trainer account and issues its permanent trainer code.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterTrainerRequest true "Registration details"
// @Success 201 {object} UserResponse "Trainer created with trainerCode"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 503 {object} gin.H "No unused trainer code could be issued"
// @Router /auth/register/trainer [post]
func (h *AuthHandler) RegisterTrainer(c *gin.Context) {
	var req RegisterTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.authService.RegisterTrainer(c.Request.Context(), service.TrainerRegistration{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Instagram: req.Instagram,
	})
	if err != nil {
		respondError(c, err, "An unexpected error occurred during registration")
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// RegisterTrainee godoc
// @Summary Register a trainee
// @Description Creates a trainee account linked by the given trainer code. A code that matches no trainer is accepted.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterTraineeRequest true "Registration details"
// @Success 201 {object} UserResponse "Trainee created"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Router /auth/register/trainee [post]
func (h *AuthHandler) RegisterTrainee(c *gin.Context) {
	var req RegisterTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.authService.RegisterTrainee(c.Request.Context(), service.TraineeRegistration{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		TrainerCode: req.TrainerCode,
		Goal:        req.Goal,
		Birthdate:   req.Birthdate,
		Gender:      anthropometry.ParseSex(req.Gender),
	})
	if err != nil {
		respondError(c, err, "An unexpected error occurred during registration")
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token carrying the role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "An unexpected error occurred during login")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Me returns the authenticated account, with derived status for trainees.
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load account.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// DeleteMe removes the authenticated account. Records that reference it are
// left in place.
// @Router /me [delete]
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to delete account.")
		return
	}
	c.Status(http.StatusNoContent)
}
