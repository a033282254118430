package dto

import (
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
)

// Refresh interval bounds (seconds) and grid limits.
const (
	MinRefreshInterval = 60
	MaxRefreshInterval = 86400
	MinGridSpan        = 1
	MaxGridSpan        = 12
)

// --- Request types ---

type CreateWidgetRequest struct {
	Type            string              `json:"type"`
	Enabled         *bool               `json:"enabled,omitempty"` // default true
	Position        models.Position     `json:"position"`
	RefreshInterval int                 `json:"refreshInterval"`
	Config          models.WidgetConfig `json:"config"`
}

type UpdateWidgetRequest struct {
	Enabled         *bool               `json:"enabled,omitempty"`
	Position        *models.Position    `json:"position,omitempty"`
	RefreshInterval *int                `json:"refreshInterval,omitempty"`
	Config          models.WidgetConfig `json:"config"`
}

// --- Response types ---

// WidgetData is the uniform envelope returned by every widget fetch. Data is
// nil whenever Error is set.
type WidgetData struct {
	WidgetID    string    `json:"widgetId"`
	WidgetType  string    `json:"widgetType"`
	Enabled     bool      `json:"enabled"`
	Data        any       `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
	Error       string    `json:"error,omitempty"`
}

// WidgetTypeEntry describes one supported widget type for the catalog endpoint.
type WidgetTypeEntry struct {
	Type          string         `json:"type"`
	ConfigOptions map[string]any `json:"configOptions"`
}
