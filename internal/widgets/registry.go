package widgets

import (
	"context"
	"sort"
	"sync"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

// Factory builds one widget variant from its runtime instance.
type Factory func(deps Deps, inst Instance) Widget

// WidgetSource lists the persisted widget rows the registry loads from. The
// registry never writes rows.
type WidgetSource interface {
	ListEnabled(ctx context.Context) ([]*models.Widget, error)
}

// Registry maps widget type names to factories and widget ids to live
// instances. It is a process-wide singleton constructed once at startup and
// passed by handle to the scheduler and service layer. The instance map is
// mutated only here, never by widgets or the scheduler.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]Widget
	deps      Deps
	source    WidgetSource
}

func NewRegistry(deps Deps, source WidgetSource) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Widget),
		deps:      deps,
		source:    source,
	}
}

// RegisterType maps a type name to its factory. Re-registering replaces.
func (r *Registry) RegisterType(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// RegisterDefaults registers every built-in widget type.
func (r *Registry) RegisterDefaults() {
	r.RegisterType(models.WidgetTypeWeather, NewWeather)
	r.RegisterType(models.WidgetTypeExchangeRate, NewExchangeRate)
	r.RegisterType(models.WidgetTypeMarket, NewMarket)
	r.RegisterType(models.WidgetTypeNews, NewNews)
	r.RegisterType(models.WidgetTypeHabitTracking, NewHabitTracking)
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates and stores a widget for inst. An unknown type is
// logged and yields nil rather than an error: a bad row must not take down
// config loading for everyone else.
func (r *Registry) Create(ctx context.Context, inst Instance) Widget {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factories[inst.Type]
	if !ok {
		logger.FromContext(ctx).Error("unknown widget type",
			"widget_id", inst.ID, "widget_type", inst.Type)
		return nil
	}
	w := f(r.deps, inst)
	r.instances[inst.ID] = w
	return w
}

// New builds a widget for inst without registering it, for config probes.
// Unknown types yield nil.
func (r *Registry) New(inst Instance) Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[inst.Type]
	if !ok {
		return nil
	}
	return f(r.deps, inst)
}

// Get returns the live widget for id, or nil.
func (r *Registry) Get(id string) Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[id]
}

// Remove drops the live widget for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, id)
}

// Clear drops every live widget. Callers wanting a clean reload call Clear
// before LoadFromStore.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[string]Widget)
}

// Instances returns a snapshot of the live widgets.
func (r *Registry) Instances() []Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Widget, 0, len(r.instances))
	for _, w := range r.instances {
		out = append(out, w)
	}
	return out
}

// LoadFromStore re-derives the instance map from the enabled rows currently
// persisted. Existing instances for returned rows are replaced in place; it
// does not remove instances on its own.
func (r *Registry) LoadFromStore(ctx context.Context) error {
	rows, err := r.source.ListEnabled(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		r.Create(ctx, InstanceOf(row))
	}
	logger.FromContext(ctx).Info("widget configuration loaded", "count", len(rows))
	return nil
}
