package services

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/widgets"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const defaultRefreshInterval = 300 // seconds

// widgetStore is the Firestore storage interface for widget rows.
type widgetStore interface {
	Create(ctx context.Context, uid string, w *models.Widget) error
	Get(ctx context.Context, uid, widgetID string) (*models.Widget, error)
	List(ctx context.Context, uid string) ([]*models.Widget, error)
	Update(ctx context.Context, uid string, w *models.Widget) error
	Delete(ctx context.Context, uid, widgetID string) error
}

// widgetRegistry is the slice of the registry the service needs.
type widgetRegistry interface {
	Create(ctx context.Context, inst widgets.Instance) widgets.Widget
	New(inst widgets.Instance) widgets.Widget
	Remove(id string)
	Types() []string
}

// widgetScheduler keeps background refresh jobs in step with row changes.
type widgetScheduler interface {
	Schedule(inst widgets.Instance)
	Unschedule(widgetID string)
}

// widgetCache is the envelope cache shared with the scheduler.
type widgetCache interface {
	Get(ctx context.Context, key string) (*dto.WidgetData, bool)
	Set(ctx context.Context, key string, data *dto.WidgetData, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type widgetsService struct {
	store     widgetStore
	registry  widgetRegistry
	scheduler widgetScheduler
	cache     widgetCache
}

func NewWidgetsService(store widgetStore, registry widgetRegistry, scheduler widgetScheduler, cache widgetCache) *widgetsService {
	return &widgetsService{store: store, registry: registry, scheduler: scheduler, cache: cache}
}

// --- Public service methods ---

func (s *widgetsService) ListWidgets(ctx context.Context, uid string) ([]*models.Widget, error) {
	return s.store.List(ctx, uid)
}

func (s *widgetsService) GetWidget(ctx context.Context, uid, widgetID string) (*models.Widget, error) {
	return s.store.Get(ctx, uid, widgetID)
}

func (s *widgetsService) CreateWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest) (*models.Widget, error) {
	w := &models.Widget{
		WidgetID:        uuid.New().String(),
		Type:            req.Type,
		UserID:          uid,
		Enabled:         helpers.ValueOr(req.Enabled, true),
		Position:        normalizePosition(req.Position),
		RefreshInterval: req.RefreshInterval,
		Config:          req.Config,
	}
	if w.RefreshInterval == 0 {
		w.RefreshInterval = defaultRefreshInterval
	}
	if err := s.validateWidget(ctx, w); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, uid, w); err != nil {
		return nil, err
	}
	s.syncRuntime(ctx, w)
	return w, nil
}

func (s *widgetsService) UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error) {
	w, err := s.store.Get(ctx, uid, widgetID)
	if err != nil {
		return nil, err
	}
	oldKey := widgets.CacheKey(widgets.InstanceOf(w))

	// Patch a copy so a rejected request leaves the stored row untouched.
	patched := *w
	if req.Enabled != nil {
		patched.Enabled = *req.Enabled
	}
	if req.Position != nil {
		patched.Position = normalizePosition(*req.Position)
	}
	if req.RefreshInterval != nil {
		patched.RefreshInterval = *req.RefreshInterval
	}
	if !reflect.DeepEqual(req.Config, models.WidgetConfig{}) {
		patched.Config = req.Config
	}
	if err := s.validateWidget(ctx, &patched); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, uid, &patched); err != nil {
		return nil, err
	}

	// A config change moves the cache key; drop the orphaned entry.
	if newKey := widgets.CacheKey(widgets.InstanceOf(&patched)); newKey != oldKey {
		s.cache.Delete(ctx, oldKey)
	}
	s.syncRuntime(ctx, &patched)
	return &patched, nil
}

func (s *widgetsService) DeleteWidget(ctx context.Context, uid, widgetID string) error {
	w, err := s.store.Get(ctx, uid, widgetID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, uid, widgetID); err != nil {
		return err
	}
	s.scheduler.Unschedule(widgetID)
	s.registry.Remove(widgetID)
	s.cache.Delete(ctx, widgets.CacheKey(widgets.InstanceOf(w)))
	return nil
}

// GetWidgetData serves the widget envelope, cache first. force bypasses the
// cache and refreshes the entry. The returned envelope is never an error:
// disabled, misconfigured, and failed widgets all report through its Error
// field.
func (s *widgetsService) GetWidgetData(ctx context.Context, uid, widgetID string, force bool) (*dto.WidgetData, error) {
	row, err := s.store.Get(ctx, uid, widgetID)
	if err != nil {
		return nil, err
	}
	inst := widgets.InstanceOf(row)
	key := widgets.CacheKey(inst)

	if !force {
		if data, ok := s.cache.Get(ctx, key); ok {
			return data, nil
		}
	}

	// Re-create from the fresh row so a concurrent registry update cannot
	// serve a stale instance.
	w := s.registry.Create(ctx, inst)
	if w == nil {
		return nil, errs.NewValidationError("unknown widget type: " + row.Type)
	}

	data := widgets.GetData(ctx, w)
	if data.Error == "" {
		s.cache.Set(ctx, key, &data, inst.RefreshInterval)
	}
	return &data, nil
}

// ListTypes returns the widget type catalog.
func (s *widgetsService) ListTypes(context.Context) []dto.WidgetTypeEntry {
	out := make([]dto.WidgetTypeEntry, 0, len(widgetTypeCatalog))
	for _, name := range s.registry.Types() {
		if opts, ok := widgetTypeCatalog[name]; ok {
			out = append(out, dto.WidgetTypeEntry{Type: name, ConfigOptions: opts})
		}
	}
	return out
}

// --- Internals ---

// syncRuntime brings the registry instance and refresh job in line with the
// persisted row. Runtime sync failures are logged, not returned: the row is
// already durable.
func (s *widgetsService) syncRuntime(ctx context.Context, w *models.Widget) {
	inst := widgets.InstanceOf(w)
	if s.registry.Create(ctx, inst) == nil {
		logger.FromContext(ctx).Error("persisted widget has no registered factory",
			"widget_id", w.WidgetID, "widget_type", w.Type)
		return
	}
	s.scheduler.Schedule(inst)
}

func (s *widgetsService) validateWidget(ctx context.Context, w *models.Widget) error {
	if !typeRegistered(s.registry.Types(), w.Type) {
		return errs.NewValidationError("unknown widget type: " + w.Type)
	}
	if w.RefreshInterval < dto.MinRefreshInterval || w.RefreshInterval > dto.MaxRefreshInterval {
		return errs.NewValidationError(fmt.Sprintf(
			"refreshInterval must be between %d and %d seconds", dto.MinRefreshInterval, dto.MaxRefreshInterval))
	}
	if err := validatePosition(w.Position); err != nil {
		return err
	}

	// Run the widget's own config validation before persisting, so the API
	// rejects what GetData would only report as an envelope error.
	probe := s.registry.New(widgets.InstanceOf(w))
	if probe == nil {
		return errs.NewValidationError("unknown widget type: " + w.Type)
	}
	return probe.ValidateConfig()
}

func normalizePosition(p models.Position) models.Position {
	if p.Width == 0 {
		p.Width = 1
	}
	if p.Height == 0 {
		p.Height = 1
	}
	return p
}

func validatePosition(p models.Position) error {
	if p.Row < 0 || p.Col < 0 {
		return errs.NewValidationError("position row and col must not be negative")
	}
	if p.Width < dto.MinGridSpan || p.Width > dto.MaxGridSpan ||
		p.Height < dto.MinGridSpan || p.Height > dto.MaxGridSpan {
		return errs.NewValidationError(fmt.Sprintf(
			"position width and height must be between %d and %d", dto.MinGridSpan, dto.MaxGridSpan))
	}
	return nil
}

func typeRegistered(types []string, name string) bool {
	for _, t := range types {
		if t == name {
			return true
		}
	}
	return false
}

// widgetTypeCatalog documents each type's config surface for clients.
var widgetTypeCatalog = map[string]map[string]any{
	models.WidgetTypeWeather: {
		"location":     "city name, required",
		"units":        []string{"metric", "imperial", "standard"},
		"showForecast": "bool, default true",
	},
	models.WidgetTypeExchangeRate: {
		"baseCurrency":     "3-letter ISO code, required",
		"targetCurrencies": "list of 3-letter ISO codes, required",
	},
	models.WidgetTypeMarket: {
		"stocks": "list of ticker symbols",
		"crypto": "list of crypto symbols",
	},
	models.WidgetTypeNews: {
		"rssFeeds":          "list of feed URLs",
		"useNewsApi":        "bool",
		"query":             "NewsAPI search query",
		"category":          "NewsAPI headline category",
		"country":           "NewsAPI headline country, default us",
		"maxArticles":       "int, default 10",
		"descriptionLength": "int, default 200",
	},
	models.WidgetTypeHabitTracking: {
		"habitId": "habit id, required",
	},
}
