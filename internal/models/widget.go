package models

import "time"

// Widget type names.
const (
	WidgetTypeWeather       = "weather"
	WidgetTypeExchangeRate  = "exchange_rate"
	WidgetTypeNews          = "news"
	WidgetTypeMarket        = "market"
	WidgetTypeHabitTracking = "habit_tracking"
)

// Widget represents a user's homepage widget configuration stored in Firestore.
type Widget struct {
	WidgetID        string       `firestore:"widgetId" json:"widgetId"`
	Type            string       `firestore:"type" json:"type"`
	UserID          string       `firestore:"userId" json:"userId"`
	Enabled         bool         `firestore:"enabled" json:"enabled"`
	Position        Position     `firestore:"position" json:"position"`
	RefreshInterval int          `firestore:"refreshInterval" json:"refreshInterval"` // seconds
	Config          WidgetConfig `firestore:"config" json:"config"`
	CreatedAt       time.Time    `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time    `firestore:"updatedAt" json:"updatedAt"`
}

// Position is the widget's grid placement.
type Position struct {
	Row    int `firestore:"row" json:"row"`
	Col    int `firestore:"col" json:"col"`
	Width  int `firestore:"width" json:"width"`
	Height int `firestore:"height" json:"height"`
}

// WidgetConfig holds all possible configuration fields for any widget type.
// Not all fields are valid for all types; each widget enforces its own rules.
type WidgetConfig struct {
	// weather
	Location     string `firestore:"location,omitempty" json:"location,omitempty"`
	Units        string `firestore:"units,omitempty" json:"units,omitempty"` // "metric","imperial","standard"
	ShowForecast *bool  `firestore:"showForecast,omitempty" json:"showForecast,omitempty"`

	// exchange_rate
	BaseCurrency     string   `firestore:"baseCurrency,omitempty" json:"baseCurrency,omitempty"`
	TargetCurrencies []string `firestore:"targetCurrencies,omitempty" json:"targetCurrencies,omitempty"`
	ShowTrend        bool     `firestore:"showTrend,omitempty" json:"showTrend,omitempty"` // display hint, unused server-side

	// market
	Stocks []string `firestore:"stocks,omitempty" json:"stocks,omitempty"`
	Crypto []string `firestore:"crypto,omitempty" json:"crypto,omitempty"`

	// news
	RSSFeeds          []string `firestore:"rssFeeds,omitempty" json:"rssFeeds,omitempty"`
	UseNewsAPI        bool     `firestore:"useNewsApi,omitempty" json:"useNewsApi,omitempty"`
	Query             string   `firestore:"query,omitempty" json:"query,omitempty"`
	Category          string   `firestore:"category,omitempty" json:"category,omitempty"`
	Country           string   `firestore:"country,omitempty" json:"country,omitempty"`
	Language          string   `firestore:"language,omitempty" json:"language,omitempty"`
	MaxArticles       int      `firestore:"maxArticles,omitempty" json:"maxArticles,omitempty"`
	DescriptionLength int      `firestore:"descriptionLength,omitempty" json:"descriptionLength,omitempty"`

	// habit_tracking
	HabitID string `firestore:"habitId,omitempty" json:"habitId,omitempty"`

	// any widget may carry its own provider key; falls back to user settings,
	// then to the process-wide key
	APIKey string `firestore:"apiKey,omitempty" json:"apiKey,omitempty"`
}
