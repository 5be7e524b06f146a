package student

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/auth"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Log        zerolog.Logger
}

func NewHandler(db *gorm.DB, repo Repository, log zerolog.Logger) *Handler {
	return &Handler{DB: db, Repository: repo, Log: log}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.Log.Info().Str("userId", auth.UserID(r)).Msg("listing all students")

	students, err := h.Repository.GetAll(h.DB)
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(students))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Student not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(*s))
}

// GetForCurrentTeacher returns the students linked to the calling teacher.
func (h *Handler) GetForCurrentTeacher(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)

	students, err := h.Repository.GetByTeacherUserID(h.DB, userID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(students))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto StudentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	s := Student{FullName: dto.FullName, DateOfBirth: dto.DateOfBirth}
	if err := h.Repository.Create(h.DB, auth.ActorFromRequest(r), &s); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", s.ID).Msg("student created")
	writeJSON(w, http.StatusCreated, ToDTO(s))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto StudentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	existing, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Student not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	existing.FullName = dto.FullName
	existing.DateOfBirth = dto.DateOfBirth
	if err := h.Repository.Update(h.DB, auth.ActorFromRequest(r), existing); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", existing.ID).Msg("student updated")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Delete(h.DB, auth.ActorFromRequest(r), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Student not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	h.Log.Info().Int("id", id).Msg("student deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.Log.Error().Err(err).Msg("internal error")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
