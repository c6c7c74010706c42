package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/markclone/shop-api/internal/application/auth"
	"github.com/markclone/shop-api/internal/domain"
)

// AuthHandler handles signup, OTP verification, login and logout.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Passcode hash and OTP are excluded by the User JSON tags.
	writeJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var body struct {
		OTP string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OTP == "" {
		writeError(w, http.StatusBadRequest, "otp required")
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), userID, body.OTP); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "You're verified successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	access, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthTokenEnvelope{Message: "Welcome!", Access: access})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	bearer := bearerToken(r)
	backdated, err := h.svc.Logout(r.Context(), bearer)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthTokenEnvelope{
		Message:     "You're out successfully",
		AccessToken: backdated,
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
