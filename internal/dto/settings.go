package dto

// ProviderSettingsResponse reports which provider keys a user has configured
// without echoing the keys themselves.
type ProviderSettingsResponse struct {
	WeatherKeySet      bool `json:"weatherKeySet"`
	NewsKeySet         bool `json:"newsKeySet"`
	ExchangeRateKeySet bool `json:"exchangeRateKeySet"`
}

// UpdateProviderSettingsRequest sets or replaces provider keys. Empty fields
// are left unchanged.
type UpdateProviderSettingsRequest struct {
	WeatherAPIKey      string `json:"weatherApiKey,omitempty"`
	NewsAPIKey         string `json:"newsApiKey,omitempty"`
	ExchangeRateAPIKey string `json:"exchangeRateApiKey,omitempty"`
}
