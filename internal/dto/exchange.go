package dto

// Exchange-rate data sources.
const (
	ExchangeSourceAPI = "api"
	ExchangeSourceECB = "ecb"
)

// ExchangeRateData is the payload of an exchange_rate widget fetch.
type ExchangeRateData struct {
	BaseCurrency string         `json:"baseCurrency"`
	Source       string         `json:"source"` // "api" or "ecb"
	Rates        []ExchangeRate `json:"rates"`
}

type ExchangeRate struct {
	Currency  string  `json:"currency"`
	Rate      float64 `json:"rate"` // rounded to 4 decimals
	Formatted string  `json:"formatted"`
}
