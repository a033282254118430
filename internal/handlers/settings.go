package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/middleware"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/response"
)

type SettingsService interface {
	GetSettings(ctx context.Context, uid string) (dto.ProviderSettingsResponse, error)
	UpdateSettings(ctx context.Context, uid string, req dto.UpdateProviderSettingsRequest) (dto.ProviderSettingsResponse, error)
}

type settingsHandlers struct {
	ResponseHandler response.ResponseHandler
	SettingsSvc     SettingsService
}

func NewSettingsHandlers(deps *Deps) *settingsHandlers {
	return &settingsHandlers{
		ResponseHandler: deps.ResponseHandler,
		SettingsSvc:     deps.SettingsSvc,
	}
}

func (h *settingsHandlers) SettingsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/providers", h.GetSettings)
	r.Put("/providers", h.UpdateSettings)
	return r
}

func (h *settingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	settings, err := h.SettingsSvc.GetSettings(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *settingsHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProviderSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	settings, err := h.SettingsSvc.UpdateSettings(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}
