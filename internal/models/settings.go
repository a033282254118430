package models

import "time"

// Provider names used for API key resolution.
const (
	ProviderWeather      = "openweathermap"
	ProviderNews         = "newsapi"
	ProviderExchangeRate = "exchangerate"
)

// ProviderSettings holds a user's own third-party API keys. The store layer
// keeps the key fields KMS-encrypted at rest; the values here are plaintext
// only in memory.
type ProviderSettings struct {
	WeatherAPIKey      string    `firestore:"weatherApiKey,omitempty" json:"weatherApiKey,omitempty"`
	NewsAPIKey         string    `firestore:"newsApiKey,omitempty" json:"newsApiKey,omitempty"`
	ExchangeRateAPIKey string    `firestore:"exchangeRateApiKey,omitempty" json:"exchangeRateApiKey,omitempty"`
	UpdatedAt          time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Key returns the stored key for a provider name, or "".
func (s *ProviderSettings) Key(provider string) string {
	if s == nil {
		return ""
	}
	switch provider {
	case ProviderWeather:
		return s.WeatherAPIKey
	case ProviderNews:
		return s.NewsAPIKey
	case ProviderExchangeRate:
		return s.ExchangeRateAPIKey
	}
	return ""
}
