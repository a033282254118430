package widgets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const (
	yahooChartURLFormat = "https://query1.finance.yahoo.com/v8/finance/chart/%s"
	coingeckoPriceURL   = "https://api.coingecko.com/api/v3/simple/price"
)

// coingeckoIDs maps common ticker symbols to CoinGecko asset ids. Symbols
// not listed here are passed through lowercased, which already works for
// assets whose id matches their name (e.g. "solana").
var coingeckoIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"ADA":  "cardano",
	"XRP":  "ripple",
	"DOGE": "dogecoin",
	"DOT":  "polkadot",
	"LTC":  "litecoin",
}

type marketWidget struct {
	deps Deps
	inst Instance
}

// NewMarket is the factory for the market widget.
func NewMarket(deps Deps, inst Instance) Widget {
	return &marketWidget{deps: deps, inst: inst}
}

func (w *marketWidget) Instance() Instance { return w.inst }

func (w *marketWidget) now() time.Time { return w.deps.now() }

func (w *marketWidget) ValidateConfig() error {
	if len(w.inst.Config.Stocks) == 0 && len(w.inst.Config.Crypto) == 0 {
		return errs.NewValidationError("config must list at least one stock or crypto symbol")
	}
	return nil
}

// FetchData gathers stock quotes symbol by symbol and crypto prices in one
// batch. A failing stock symbol is skipped; a failing crypto batch yields an
// empty crypto list. The fetch as a whole fails only when nothing at all
// could be retrieved.
func (w *marketWidget) FetchData(ctx context.Context) (any, error) {
	log := logger.FromContext(ctx)
	data := dto.MarketData{
		Stocks: make([]dto.StockQuote, 0, len(w.inst.Config.Stocks)),
		Crypto: make([]dto.CryptoQuote, 0, len(w.inst.Config.Crypto)),
	}

	for _, symbol := range w.inst.Config.Stocks {
		quote, err := w.fetchStock(ctx, strings.ToUpper(symbol))
		if err != nil {
			log.Warn("stock quote fetch failed, skipping symbol",
				"widget_id", w.inst.ID, "symbol", symbol, "error", err)
			continue
		}
		data.Stocks = append(data.Stocks, quote)
	}

	if len(w.inst.Config.Crypto) > 0 {
		crypto, err := w.fetchCrypto(ctx)
		if err != nil {
			log.Warn("crypto price fetch failed, omitting crypto quotes",
				"widget_id", w.inst.ID, "error", err)
		} else {
			data.Crypto = crypto
		}
	}

	if len(data.Stocks) == 0 && len(data.Crypto) == 0 {
		return nil, errs.NewExternalServiceError("market",
			"no market data could be retrieved for any configured symbol", true)
	}
	return data, nil
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

func (w *marketWidget) fetchStock(ctx context.Context, symbol string) (dto.StockQuote, error) {
	var resp yahooChartResponse
	u := fmt.Sprintf(yahooChartURLFormat, url.PathEscape(symbol))
	params := url.Values{"interval": {"1d"}, "range": {"1d"}}
	if err := w.deps.Fetch.GetJSON(ctx, u, params, nil, &resp); err != nil {
		return dto.StockQuote{}, err
	}
	if len(resp.Chart.Result) == 0 {
		return dto.StockQuote{}, errs.NewExternalServiceError("yahoo-finance",
			fmt.Sprintf("no chart result for symbol %s", symbol), false)
	}

	meta := resp.Chart.Result[0].Meta
	quote := dto.StockQuote{
		Symbol:   symbol,
		Price:    roundTo(meta.RegularMarketPrice, 2),
		Currency: meta.Currency,
	}
	if meta.PreviousClose != 0 {
		change := meta.RegularMarketPrice - meta.PreviousClose
		quote.Change = helpers.Ptr(roundTo(change, 2))
		quote.ChangePercent = helpers.Ptr(roundTo(change/meta.PreviousClose*100, 2))
	}
	return quote, nil
}

func (w *marketWidget) fetchCrypto(ctx context.Context) ([]dto.CryptoQuote, error) {
	ids := make([]string, 0, len(w.inst.Config.Crypto))
	idToSymbol := make(map[string]string, len(w.inst.Config.Crypto))
	for _, symbol := range w.inst.Config.Crypto {
		id := coingeckoID(symbol)
		ids = append(ids, id)
		idToSymbol[id] = strings.ToUpper(symbol)
	}

	params := url.Values{
		"ids":                 {strings.Join(ids, ",")},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
	}
	var resp map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}
	if err := w.deps.Fetch.GetJSON(ctx, coingeckoPriceURL, params, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]dto.CryptoQuote, 0, len(ids))
	for _, id := range ids {
		entry, ok := resp[id]
		if !ok {
			continue
		}
		out = append(out, dto.CryptoQuote{
			Symbol:    idToSymbol[id],
			ID:        id,
			Price:     roundCryptoPrice(entry.USD),
			Change24h: roundTo(entry.Change24h, 2),
		})
	}
	return out, nil
}

func coingeckoID(symbol string) string {
	if id, ok := coingeckoIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Sub-dollar assets need more precision than the usual two decimals.
func roundCryptoPrice(price float64) float64 {
	if price < 1.0 {
		return roundTo(price, 6)
	}
	return roundTo(price, 2)
}
