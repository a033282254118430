package dto

// MarketData is the payload of a market widget fetch. Either list may be
// empty when its source is not configured or every lookup for it failed.
type MarketData struct {
	Stocks []StockQuote  `json:"stocks"`
	Crypto []CryptoQuote `json:"crypto"`
}

type StockQuote struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

type CryptoQuote struct {
	Symbol    string  `json:"symbol"`
	ID        string  `json:"id"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}
