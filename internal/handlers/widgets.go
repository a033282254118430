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

type WidgetsService interface {
	ListWidgets(ctx context.Context, uid string) ([]*models.Widget, error)
	GetWidget(ctx context.Context, uid, widgetID string) (*models.Widget, error)
	CreateWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest) (*models.Widget, error)
	UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error)
	DeleteWidget(ctx context.Context, uid, widgetID string) error
	GetWidgetData(ctx context.Context, uid, widgetID string, force bool) (*dto.WidgetData, error)
	ListTypes(ctx context.Context) []dto.WidgetTypeEntry
}

type widgetHandlers struct {
	ResponseHandler response.ResponseHandler
	WidgetsSvc      WidgetsService
}

func NewWidgetHandlers(deps *Deps) *widgetHandlers {
	return &widgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		WidgetsSvc:      deps.WidgetsSvc,
	}
}

func (h *widgetHandlers) WidgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListWidgets)
	r.Post("/", h.CreateWidget)
	r.Get("/types", h.GetWidgetTypes) // must be before /{widgetId}
	r.Get("/{widgetId}", h.GetWidget)
	r.Put("/{widgetId}", h.UpdateWidget)
	r.Delete("/{widgetId}", h.DeleteWidget)
	r.Get("/{widgetId}/data", h.GetWidgetData)
	return r
}

func (h *widgetHandlers) ListWidgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	widgets, err := h.WidgetsSvc.ListWidgets(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widgets)
}

func (h *widgetHandlers) GetWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	uid := middleware.UID(r.Context())
	widget, err := h.WidgetsSvc.GetWidget(r.Context(), uid, widgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *widgetHandlers) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.WidgetsSvc.CreateWidget(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, widget)
}

func (h *widgetHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.WidgetsSvc.UpdateWidget(r.Context(), uid, widgetID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *widgetHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	uid := middleware.UID(r.Context())
	if err := h.WidgetsSvc.DeleteWidget(r.Context(), uid, widgetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// GetWidgetData serves the widget envelope. ?refresh=true bypasses the cache.
func (h *widgetHandlers) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	uid := middleware.UID(r.Context())
	force := r.URL.Query().Get("refresh") == "true"

	data, err := h.WidgetsSvc.GetWidgetData(r.Context(), uid, widgetID, force)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *widgetHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.WidgetsSvc.ListTypes(r.Context()))
}
