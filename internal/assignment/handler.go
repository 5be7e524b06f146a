package assignment

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
	h.Log.Info().Str("userId", auth.UserID(r)).Msg("listing all assignments")

	assignments, err := h.Repository.GetAll(h.DB)
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(assignments))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Assignment not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(*a))
}

// GetForCurrentTeacher returns the assignments handed out by the calling
// teacher.
func (h *Handler) GetForCurrentTeacher(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Repository.GetByTeacherUserID(h.DB, auth.UserID(r))
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(assignments))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto AssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	a := Assignment{
		Title:       dto.Title,
		Description: dto.Description,
		DueDate:     dto.DueDate,
		IsCompleted: dto.IsCompleted,
		TeacherID:   dto.TeacherID,
	}
	if err := h.Repository.Create(h.DB, auth.ActorFromRequest(r), &a); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", a.ID).Msg("assignment created")
	writeJSON(w, http.StatusCreated, ToDTO(a))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto AssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	existing, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Assignment not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	existing.Title = dto.Title
	existing.Description = dto.Description
	existing.DueDate = dto.DueDate
	existing.IsCompleted = dto.IsCompleted
	if err := h.Repository.Update(h.DB, auth.ActorFromRequest(r), existing); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", existing.ID).Msg("assignment updated")
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
			http.Error(w, "Assignment not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	h.Log.Info().Int("id", id).Msg("assignment deleted")
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
