package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/commodity-tracker/internal/user/domain"
	"github.com/tair/commodity-tracker/internal/user/usecase/command"
	"github.com/tair/commodity-tracker/internal/user/usecase/query"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// UserHandler handles session HTTP requests
type UserHandler struct {
	loginHandler   *command.LoginUserHandler
	getUserHandler *query.GetUserHandler

	logins *prometheus.CounterVec
}

// NewUserHandler creates a new user handler and registers its metrics on reg
func NewUserHandler(loginHandler *command.LoginUserHandler, getUserHandler *query.GetUserHandler, reg prometheus.Registerer) *UserHandler {
	logins := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
	reg.MustRegister(logins)

	return &UserHandler{
		loginHandler:   loginHandler,
		getUserHandler: getUserHandler,
		logins:         logins,
	}
}

// RegisterRoutes registers session routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/auth/me", AuthMiddleware(h.GetProfile)).Methods("GET")
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.logins.WithLabelValues("rejected").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Login failed")
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.logins.WithLabelValues("accepted").Inc()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// GetProfile handles GET /auth/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserIDKey).(string)

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: userID})
	if errors.Is(err, domain.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Failed to load profile")
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    user,
	})
}
