package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler exposes the auth workflows over HTTP.
type Handler struct {
	Service *Service
	Log     zerolog.Logger
}

func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{Service: service, Log: log}
}

// TeacherRegister handles POST /api/auth/teacher-register.
func (h *Handler) TeacherRegister(w http.ResponseWriter, r *http.Request) {
	var req TeacherRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"invalid payload"}})
		return
	}
	h.Log.Info().Str("username", req.Username).Msg("teacher registration attempt")

	if req.Password != req.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"Passwords do not match."}})
		return
	}

	err := h.Service.RegisterTeacher(req.Username, req.Email, req.Password, req.FirstName, req.LastName, req.Subject, req.BirthDate)
	if err != nil {
		h.registrationError(w, req.Username, err)
		return
	}

	h.Log.Info().Str("username", req.Username).Msg("teacher registered")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Teacher registered successfully, confirm your e-mail"})
}

// StudentRegister handles POST /api/auth/student-register.
func (h *Handler) StudentRegister(w http.ResponseWriter, r *http.Request) {
	var req StudentRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"invalid payload"}})
		return
	}
	h.Log.Info().Str("username", req.Username).Msg("student registration attempt")

	if req.Password != req.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"Passwords do not match."}})
		return
	}

	err := h.Service.RegisterStudent(req.Username, req.Email, req.Password, req.FirstName, req.LastName, req.BirthDate)
	if err != nil {
		h.registrationError(w, req.Username, err)
		return
	}

	h.Log.Info().Str("username", req.Username).Msg("student registered")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Student registered successfully, confirm your e-mail"})
}

// ConfirmEmail handles GET /api/auth/confirm-email?userId=..&token=..
func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	token := r.URL.Query().Get("token")

	if err := h.Service.ConfirmEmail(userID, token); err != nil {
		var vErr *ValidationError
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "Invalid user", http.StatusBadRequest)
			return
		}
		if errors.As(err, &vErr) {
			http.Error(w, "Invalid token", http.StatusBadRequest)
			return
		}
		h.serverError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Email confirmed successfully!"))
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	h.Log.Info().Str("username", req.Username).Msg("login attempt")

	pair, err := h.Service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrEmailNotConfirmed) {
			h.Log.Warn().Str("username", req.Username).Msg("failed login attempt")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}

	h.Log.Info().Str("username", req.Username).Msg("user logged in")
	writeJSON(w, http.StatusOK, pair)
}

// RefreshToken handles POST /api/auth/refresh-token. The body is the raw
// refresh token as a JSON string.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var token string
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	pair, err := h.Service.Refresh(token)
	if err != nil {
		if errors.Is(err, ErrTokenInvalidOrExpired) || errors.Is(err, ErrUserNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// ForgotPassword handles POST /api/auth/forgot-password?email=..
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	emailAddr := r.URL.Query().Get("email")

	if err := h.Service.ForgotPassword(emailAddr); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset link sent."})
}

// ResetPassword handles GET /api/auth/reset-password?email=..&token=..&newPassword=..
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	err := h.Service.ResetPassword(q.Get("email"), q.Get("token"), q.Get("newPassword"))
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.Is(err, ErrUserNotFound):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{err.Error()}})
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": vErr.Errors})
		default:
			h.serverError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully."})
}

func (h *Handler) registrationError(w http.ResponseWriter, username string, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		h.Log.Warn().Str("username", username).Strs("errors", vErr.Errors).Msg("registration validation error")
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": vErr.Errors})
		return
	}
	h.serverError(w, err)
}

// serverError hides storage and infrastructure failures behind a generic
// response; the detail stays in the log.
func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.Log.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
