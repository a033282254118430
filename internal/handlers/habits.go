package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/middleware"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/response"
)

type HabitsService interface {
	CreateHabit(ctx context.Context, uid string, req dto.CreateHabitRequest) (*models.Habit, error)
	ListHabits(ctx context.Context, uid string) ([]*models.Habit, error)
	GetHabit(ctx context.Context, uid, habitID string) (*models.Habit, error)
	SetActive(ctx context.Context, uid, habitID string, active bool) (*models.Habit, error)
	DeleteHabit(ctx context.Context, uid, habitID string) error
	SetCompletion(ctx context.Context, uid, habitID string, req dto.SetCompletionRequest) error
	ListCompletions(ctx context.Context, uid, habitID, from, to string) ([]models.HabitCompletion, error)
}

type habitHandlers struct {
	ResponseHandler response.ResponseHandler
	HabitsSvc       HabitsService
}

func NewHabitHandlers(deps *Deps) *habitHandlers {
	return &habitHandlers{
		ResponseHandler: deps.ResponseHandler,
		HabitsSvc:       deps.HabitsSvc,
	}
}

func (h *habitHandlers) HabitRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListHabits)
	r.Post("/", h.CreateHabit)
	r.Get("/{habitId}", h.GetHabit)
	r.Put("/{habitId}/active", h.SetActive)
	r.Delete("/{habitId}", h.DeleteHabit)
	r.Put("/{habitId}/completions", h.SetCompletion)
	r.Get("/{habitId}/completions", h.ListCompletions)
	return r
}

func (h *habitHandlers) ListHabits(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	habits, err := h.HabitsSvc.ListHabits(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, habits)
}

func (h *habitHandlers) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	habit, err := h.HabitsSvc.CreateHabit(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, habit)
}

func (h *habitHandlers) GetHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")
	uid := middleware.UID(r.Context())
	habit, err := h.HabitsSvc.GetHabit(r.Context(), uid, habitID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, habit)
}

func (h *habitHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	habit, err := h.HabitsSvc.SetActive(r.Context(), uid, habitID, req.Active)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, habit)
}

func (h *habitHandlers) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")
	uid := middleware.UID(r.Context())
	if err := h.HabitsSvc.DeleteHabit(r.Context(), uid, habitID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *habitHandlers) SetCompletion(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")
	var req dto.SetCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.HabitsSvc.SetCompletion(r.Context(), uid, habitID, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *habitHandlers) ListCompletions(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")
	uid := middleware.UID(r.Context())
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	completions, err := h.HabitsSvc.ListCompletions(r.Context(), uid, habitID, from, to)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, completions)
}
