// Package widgets holds the widget abstraction: the per-type fetch
// implementations, the type registry, and the background refresh scheduler.
package widgets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/client/webfetch"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

// Envelope error strings. Fixed wording; clients render these verbatim.
const (
	ErrMsgDisabled      = "Widget is disabled"
	ErrMsgInvalidConfig = "Invalid widget configuration"
)

// Instance is the runtime identity of one configured widget, derived from its
// persisted row. Instances are owned by the Registry; the scheduler and
// service layer only borrow them.
type Instance struct {
	ID              string
	Type            string
	UserID          string
	Enabled         bool
	Position        models.Position
	RefreshInterval time.Duration
	Config          models.WidgetConfig
}

// InstanceOf derives an Instance from a persisted widget row, injecting the
// row-level fields (owner, enabled, position, refresh interval) alongside the
// type-specific config.
func InstanceOf(w *models.Widget) Instance {
	return Instance{
		ID:              w.WidgetID,
		Type:            w.Type,
		UserID:          w.UserID,
		Enabled:         w.Enabled,
		Position:        w.Position,
		RefreshInterval: time.Duration(w.RefreshInterval) * time.Second,
		Config:          w.Config,
	}
}

// Widget is the capability every variant implements. ValidateConfig must be
// pure (no I/O); FetchData performs the provider calls and may fail freely —
// GetData is the single boundary that converts failures into envelope errors.
type Widget interface {
	Instance() Instance
	ValidateConfig() error
	FetchData(ctx context.Context) (any, error)
}

// HabitSource is the read-only view of habit data consumed by the
// habit-tracking widget. The streak scan needs the full history, so there is
// no ranged query here.
type HabitSource interface {
	GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error)
	ListAllCompletions(ctx context.Context, userID, habitID string) ([]models.HabitCompletion, error)
}

// KeyResolver resolves a provider API key for a user when the widget's own
// config does not carry one.
type KeyResolver interface {
	ProviderKey(ctx context.Context, userID, provider string) string
}

// Deps carries the capabilities injected into widget constructors.
type Deps struct {
	Fetch    webfetch.Fetcher
	Keys     KeyResolver
	Habits   HabitSource
	ClockNow func() time.Time
}

func (d Deps) now() time.Time {
	if d.ClockNow != nil {
		return d.ClockNow()
	}
	return time.Now()
}

// providerKey resolves widget config key → user/global key → "".
func (d Deps) providerKey(ctx context.Context, inst Instance, provider string) string {
	if inst.Config.APIKey != "" {
		return inst.Config.APIKey
	}
	if d.Keys != nil {
		return d.Keys.ProviderKey(ctx, inst.UserID, provider)
	}
	return ""
}

// clocked is satisfied by widgets built with an injected clock.
type clocked interface {
	now() time.Time
}

// GetData runs the shared widget state machine: disabled check, config
// validation, fetch. It never returns an error — every failure becomes the
// envelope's Error field, so callers can treat the call as infallible.
// LastUpdated follows the widget's own clock when it carries one.
func GetData(ctx context.Context, w Widget) dto.WidgetData {
	now := time.Now
	if c, ok := w.(clocked); ok {
		now = c.now
	}
	inst := w.Instance()
	data := dto.WidgetData{
		WidgetID:    inst.ID,
		WidgetType:  inst.Type,
		Enabled:     inst.Enabled,
		LastUpdated: now().UTC(),
	}

	if !inst.Enabled {
		data.Error = ErrMsgDisabled
		return data
	}

	if err := w.ValidateConfig(); err != nil {
		logger.FromContext(ctx).Warn("widget config invalid",
			"widget_id", inst.ID, "widget_type", inst.Type, "error", err)
		data.Error = ErrMsgInvalidConfig
		return data
	}

	payload, err := w.FetchData(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("widget fetch failed",
			"widget_id", inst.ID, "widget_type", inst.Type, "error", err)
		data.Error = err.Error()
		return data
	}

	data.Data = payload
	return data
}

// CacheKey derives the cache key for an instance. It is a pure function of
// (type, id, config): identical config always yields the identical key, and
// any config change yields a new key, orphaning the stale entry.
func CacheKey(inst Instance) string {
	return fmt.Sprintf("widget:%s:%s:%s", inst.Type, inst.ID, configHash(inst.Config))
}

// configHash hashes a canonical serialization of the config. Round-tripping
// through a map gives sorted keys regardless of struct field order.
func configHash(cfg models.WidgetConfig) string {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "unhashable"
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "unhashable"
	}
	canon, err := json.Marshal(m)
	if err != nil {
		return "unhashable"
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:])[:16]
}
