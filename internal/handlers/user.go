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

type UserService interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpsertUser(ctx context.Context, uid string, req dto.UpsertUserRequest) (*models.User, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.GetUser)
	r.Put("/me", h.UpsertUser)
	return r
}

func (h *userHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	user, err := h.UserSvc.GetUser(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	user, err := h.UserSvc.UpsertUser(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}
