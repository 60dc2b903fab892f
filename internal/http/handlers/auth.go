package handlers

import (
	"errors"
	"net/http"

	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/middleware"
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/stub"
	"go.uber.org/zap"
)

// AuthHandler handles the signup and login endpoints
type AuthHandler struct {
	authService *auth.AuthService
	backend     *stub.Backend
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.AuthService, backend *stub.Backend, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		backend:     backend,
		logger:      logger,
	}
}

// HandleSignup handles POST /signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.User
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.SignupSmoker(r.Context(), req)
	if err != nil {
		h.signupFailed(w, "El usuario ya existe", err)
		return
	}

	h.logger.Info("smoker signed up", zap.Int64("id", user.ID))
	respondJSON(w, http.StatusCreated, user)
}

// HandleLogin handles POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.LoginSmoker(r.Context(), req)
	if err != nil {
		h.loginFailed(w, err)
		return
	}

	respondJSON(w, http.StatusOK, model.SmokerLogin{
		ID:              user.ID,
		Name:            user.Name,
		CigaretteCount:  user.CigaretteCount,
		Periodicity:     user.Periodicity,
		ConsumptionType: h.backend.ConsumptionTypeName(user.ConsumptionTypeID),
		Photo:           user.Photo,
		Token:           token,
	})
}

// HandleSignupCoach handles POST /signup-coach
func (h *AuthHandler) HandleSignupCoach(w http.ResponseWriter, r *http.Request) {
	var req model.CoachProfile
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coach, err := h.authService.SignupCoach(r.Context(), req)
	if err != nil {
		h.signupFailed(w, "El coach ya existe", err)
		return
	}

	h.logger.Info("coach signed up", zap.Int64("id", coach.ID))
	respondJSON(w, http.StatusCreated, coach)
}

// HandleLoginCoach handles POST /login-coach
func (h *AuthHandler) HandleLoginCoach(w http.ResponseWriter, r *http.Request) {
	var req model.CoachCredentials
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coach, token, err := h.authService.LoginCoach(r.Context(), req)
	if err != nil {
		h.loginFailed(w, err)
		return
	}

	respondJSON(w, http.StatusOK, model.CoachLogin{
		CoachID: coach.ID,
		Name:    coach.Name,
		Gender:  coach.Gender,
		Photo:   coach.Photo,
		Token:   token,
	})
}

// HandleProtected handles GET /protected (protected)
func (h *AuthHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondWithMsg(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"logged_in_as": claims.Subject,
		"role":         string(claims.Role),
	})
}

func (h *AuthHandler) signupFailed(w http.ResponseWriter, takenMsg string, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		respondWithMsg(w, http.StatusBadRequest, "Faltan email o password")
	case errors.Is(err, auth.ErrEmailTaken):
		respondWithMsg(w, http.StatusBadRequest, takenMsg)
	default:
		h.logger.Error("signup failed", zap.Error(err))
		respondWithMsg(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		respondWithMsg(w, http.StatusBadRequest, "Faltan email o password")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondWithMsg(w, http.StatusUnauthorized, "Credenciales inválidas")
	default:
		h.logger.Error("login failed", zap.Error(err))
		respondWithMsg(w, http.StatusInternalServerError, "internal error")
	}
}
