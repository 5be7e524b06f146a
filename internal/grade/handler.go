package grade

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
	h.Log.Info().Str("userId", auth.UserID(r)).Msg("listing all grades")

	grades, err := h.Repository.GetAll(h.DB)
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(grades))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	g, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Grade not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(*g))
}

// GetForCurrentStudent returns the grades of the calling student.
func (h *Handler) GetForCurrentStudent(w http.ResponseWriter, r *http.Request) {
	grades, err := h.Repository.GetByStudentUserID(h.DB, auth.UserID(r))
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(grades))
}

// GetByAssignment returns all grades given for one assignment.
func (h *Handler) GetByAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	grades, err := h.Repository.GetByAssignmentID(h.DB, uint(id))
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(grades))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto GradeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	g := Grade{Value: dto.Value, AssignmentID: dto.AssignmentID, StudentID: dto.StudentID}
	if err := h.Repository.Create(h.DB, auth.ActorFromRequest(r), &g); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", g.ID).Msg("grade created")
	writeJSON(w, http.StatusCreated, ToDTO(g))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto GradeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	existing, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Grade not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	existing.Value = dto.Value
	existing.AssignmentID = dto.AssignmentID
	existing.StudentID = dto.StudentID
	if err := h.Repository.Update(h.DB, auth.ActorFromRequest(r), existing); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", existing.ID).Msg("grade updated")
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
			http.Error(w, "Grade not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	h.Log.Info().Int("id", id).Msg("grade deleted")
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
