package teacher

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
	h.Log.Info().Str("userId", auth.UserID(r)).Msg("listing all teachers")

	teachers, err := h.Repository.GetAll(h.DB)
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(teachers))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Teacher not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(*t))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto TeacherDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	t := Teacher{FullName: dto.FullName, Subject: dto.Subject}
	if err := h.Repository.Create(h.DB, auth.ActorFromRequest(r), &t); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", t.ID).Msg("teacher created")
	writeJSON(w, http.StatusCreated, ToDTO(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto TeacherDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	existing, err := h.Repository.GetByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Teacher not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	existing.FullName = dto.FullName
	existing.Subject = dto.Subject
	if err := h.Repository.Update(h.DB, auth.ActorFromRequest(r), existing); err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Info().Uint("id", existing.ID).Msg("teacher updated")
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
			http.Error(w, "Teacher not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err)
		return
	}

	h.Log.Info().Int("id", id).Msg("teacher deleted")
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
