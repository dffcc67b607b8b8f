package handler

import (
	"net/http"

	"github.com/NaiduBugata/MahoAccom/internal/auth"
	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/service"
)

// AuthHandler serves login, profile, and operator-account management.
type AuthHandler struct {
	svc     *service.AuthService
	limiter *auth.RateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService, limiter *auth.RateLimiter) *AuthHandler {
	return &AuthHandler{svc: svc, limiter: limiter}
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login handles POST /api/auth/login
// Throttled per client IP; the limiter is advisory and in-memory.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	key := "login:" + ClientIP(r)
	if !h.limiter.Allow(key) {
		writeError(w, http.StatusTooManyRequests, kindRateLimited,
			"too many login attempts, please try again later")
		return
	}

	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}

	user, token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.limiter.Reset(key)
	writeData(w, http.StatusOK, "login successful", loginResponse{Token: token, User: user})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := OperatorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, kindAuth, "authentication required")
		return
	}
	writeData(w, http.StatusOK, "", user)
}

// CreateUser handles POST /api/auth/users (admin only)
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "user created successfully", user)
}
