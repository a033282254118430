package widgets

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const (
	exchangeAPIURLFormat = "https://v6.exchangerate-api.com/v6/%s/latest/%s"
	ecbDailyRatesURL     = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
)

type exchangeWidget struct {
	deps Deps
	inst Instance
}

// NewExchangeRate is the factory for the exchange rate widget.
func NewExchangeRate(deps Deps, inst Instance) Widget {
	return &exchangeWidget{deps: deps, inst: inst}
}

func (w *exchangeWidget) Instance() Instance { return w.inst }

func (w *exchangeWidget) now() time.Time { return w.deps.now() }

func (w *exchangeWidget) ValidateConfig() error {
	if len(w.inst.Config.BaseCurrency) != 3 {
		return errs.NewValidationError("config.baseCurrency must be a 3-letter ISO code")
	}
	if len(w.inst.Config.TargetCurrencies) == 0 {
		return errs.NewValidationError("config.targetCurrencies must list at least one currency")
	}
	for _, c := range w.inst.Config.TargetCurrencies {
		if len(c) != 3 {
			return errs.NewValidationError("config.targetCurrencies entries must be 3-letter ISO codes")
		}
	}
	return nil
}

func (w *exchangeWidget) base() string {
	return strings.ToUpper(w.inst.Config.BaseCurrency)
}

func (w *exchangeWidget) targets() []string {
	out := make([]string, 0, len(w.inst.Config.TargetCurrencies))
	for _, c := range w.inst.Config.TargetCurrencies {
		out = append(out, strings.ToUpper(c))
	}
	return out
}

// FetchData prefers the keyed provider when an API key resolves, and falls
// back to the ECB daily reference feed otherwise. The keyed path failing is
// also downgraded to the ECB fallback rather than failing the widget.
func (w *exchangeWidget) FetchData(ctx context.Context) (any, error) {
	if key := w.deps.providerKey(ctx, w.inst, models.ProviderExchangeRate); key != "" {
		data, err := w.fetchKeyed(ctx, key)
		if err == nil {
			return data, nil
		}
		logger.FromContext(ctx).Warn("keyed exchange rate fetch failed, falling back to ECB",
			"widget_id", w.inst.ID, "error", err)
	}
	return w.fetchECB(ctx)
}

type exchangeAPIResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func (w *exchangeWidget) fetchKeyed(ctx context.Context, key string) (dto.ExchangeRateData, error) {
	var resp exchangeAPIResponse
	u := fmt.Sprintf(exchangeAPIURLFormat, key, w.base())
	if err := w.deps.Fetch.GetJSON(ctx, u, nil, nil, &resp); err != nil {
		return dto.ExchangeRateData{}, err
	}
	if resp.Result != "success" {
		return dto.ExchangeRateData{}, errs.NewExternalServiceError("exchangerate-api",
			fmt.Sprintf("provider returned result %q", resp.Result), false)
	}
	return w.buildData(ctx, dto.ExchangeSourceAPI, resp.ConversionRates), nil
}

type ecbEnvelope struct {
	Cube struct {
		Cube struct {
			Time  string `xml:"time,attr"`
			Rates []struct {
				Currency string  `xml:"currency,attr"`
				Rate     float64 `xml:"rate,attr"`
			} `xml:"Cube"`
		} `xml:"Cube"`
	} `xml:"Cube"`
}

func (w *exchangeWidget) fetchECB(ctx context.Context) (dto.ExchangeRateData, error) {
	body, err := w.deps.Fetch.GetText(ctx, ecbDailyRatesURL, nil, nil)
	if err != nil {
		return dto.ExchangeRateData{}, err
	}
	var envelope ecbEnvelope
	if err := xml.Unmarshal([]byte(body), &envelope); err != nil {
		return dto.ExchangeRateData{}, errs.NewExternalServiceError("ecb",
			"malformed reference rate feed", false)
	}

	// The feed quotes everything against EUR; re-base by division.
	eurRates := map[string]float64{"EUR": 1.0}
	for _, r := range envelope.Cube.Cube.Rates {
		eurRates[strings.ToUpper(r.Currency)] = r.Rate
	}
	baseRate, ok := eurRates[w.base()]
	if !ok || baseRate == 0 {
		return dto.ExchangeRateData{}, errs.NewExternalServiceError("ecb",
			fmt.Sprintf("base currency %s not in reference feed", w.base()), false)
	}
	rebased := make(map[string]float64, len(eurRates))
	for currency, rate := range eurRates {
		rebased[currency] = rate / baseRate
	}
	return w.buildData(ctx, dto.ExchangeSourceECB, rebased), nil
}

// buildData filters the provider's rate table down to the configured targets.
// A target the provider does not quote is dropped with a warning, never an
// error; an empty rate list is a valid result.
func (w *exchangeWidget) buildData(ctx context.Context, source string, rates map[string]float64) dto.ExchangeRateData {
	data := dto.ExchangeRateData{
		BaseCurrency: w.base(),
		Source:       source,
		Rates:        make([]dto.ExchangeRate, 0, len(w.inst.Config.TargetCurrencies)),
	}
	for _, target := range w.targets() {
		rate, ok := rates[target]
		if !ok {
			logger.FromContext(ctx).Warn("target currency not quoted by provider",
				"widget_id", w.inst.ID, "source", source, "currency", target)
			continue
		}
		rounded := roundTo(rate, 4)
		data.Rates = append(data.Rates, dto.ExchangeRate{
			Currency:  target,
			Rate:      rounded,
			Formatted: fmt.Sprintf("1 %s = %.4f %s", data.BaseCurrency, rounded, target),
		})
	}
	return data
}
