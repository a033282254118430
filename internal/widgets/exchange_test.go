package widgets

import (
	"fmt"
	"testing"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
)

const ecbFeedBody = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01"
	xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<Cube>
		<Cube time="2026-08-28">
			<Cube currency="USD" rate="1.10"/>
			<Cube currency="GBP" rate="0.88"/>
			<Cube currency="CZK" rate="24.75"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func exchangeInstance(base string, targets ...string) Instance {
	inst := enabledInstance("w1", models.WidgetTypeExchangeRate)
	inst.Config = models.WidgetConfig{BaseCurrency: base, TargetCurrencies: targets}
	return inst
}

func TestExchangeValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		inst    Instance
		wantErr bool
	}{
		{"valid", exchangeInstance("EUR", "USD", "GBP"), false},
		{"lowercase accepted", exchangeInstance("eur", "usd"), false},
		{"bad base", exchangeInstance("EURO", "USD"), true},
		{"no targets", exchangeInstance("EUR"), true},
		{"bad target", exchangeInstance("EUR", "DOLLARS"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExchangeRate(Deps{}, tt.inst).ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExchangeECBFallbackEURBase(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.text[ecbDailyRatesURL] = ecbFeedBody

	raw, err := NewExchangeRate(Deps{Fetch: fetch}, exchangeInstance("EUR", "USD", "GBP")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	data := raw.(dto.ExchangeRateData)

	if data.Source != dto.ExchangeSourceECB {
		t.Errorf("Source = %q, want ecb", data.Source)
	}
	if data.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q, want EUR", data.BaseCurrency)
	}
	if len(data.Rates) != 2 {
		t.Fatalf("rates = %d, want 2", len(data.Rates))
	}
	usd := data.Rates[0]
	if usd.Currency != "USD" || usd.Rate != 1.1 {
		t.Errorf("USD rate = %+v, want 1.1", usd)
	}
	if usd.Formatted != "1 EUR = 1.1000 USD" {
		t.Errorf("Formatted = %q, want %q", usd.Formatted, "1 EUR = 1.1000 USD")
	}
}

func TestExchangeECBRebasesByDivision(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.text[ecbDailyRatesURL] = ecbFeedBody

	raw, err := NewExchangeRate(Deps{Fetch: fetch}, exchangeInstance("USD", "CZK", "EUR")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	data := raw.(dto.ExchangeRateData)

	if len(data.Rates) != 2 {
		t.Fatalf("rates = %d, want 2", len(data.Rates))
	}
	// CZK per USD = 24.75 / 1.10 = 22.5; EUR per USD = 1 / 1.10.
	if czk := data.Rates[0]; czk.Currency != "CZK" || czk.Rate != 22.5 {
		t.Errorf("CZK rate = %+v, want 22.5", czk)
	}
	if eur := data.Rates[1]; eur.Currency != "EUR" || eur.Rate != roundTo(1.0/1.10, 4) {
		t.Errorf("EUR rate = %+v, want %v", eur, roundTo(1.0/1.10, 4))
	}
}

func TestExchangeECBUnknownBase(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.text[ecbDailyRatesURL] = ecbFeedBody

	if _, err := NewExchangeRate(Deps{Fetch: fetch}, exchangeInstance("ZZZ", "USD")).FetchData(helpers.TestCtx()); err == nil {
		t.Error("FetchData succeeded for a base not in the reference feed")
	}
}

func TestExchangeKeyedProviderPreferred(t *testing.T) {
	fetch := newFakeFetcher()
	keyedURL := fmt.Sprintf(exchangeAPIURLFormat, "test-key", "USD")
	fetch.json[keyedURL] = `{"result": "success", "conversion_rates": {"EUR": 0.91236, "CZK": 22.504}}`

	inst := exchangeInstance("USD", "EUR")
	inst.Config.APIKey = "test-key"
	raw, err := NewExchangeRate(Deps{Fetch: fetch}, inst).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	data := raw.(dto.ExchangeRateData)

	if data.Source != dto.ExchangeSourceAPI {
		t.Errorf("Source = %q, want api", data.Source)
	}
	if rate := data.Rates[0]; rate.Rate != 0.9124 {
		t.Errorf("EUR rate = %v, want rounded 0.9124", rate.Rate)
	}
}

func TestExchangeKeyedFailureFallsBackToECB(t *testing.T) {
	fetch := newFakeFetcher()
	keyedURL := fmt.Sprintf(exchangeAPIURLFormat, "test-key", "EUR")
	fetch.errors[keyedURL] = fmt.Errorf("quota exceeded")
	fetch.text[ecbDailyRatesURL] = ecbFeedBody

	inst := exchangeInstance("EUR", "USD")
	inst.Config.APIKey = "test-key"
	raw, err := NewExchangeRate(Deps{Fetch: fetch}, inst).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := raw.(dto.ExchangeRateData).Source; got != dto.ExchangeSourceECB {
		t.Errorf("Source = %q, want ecb fallback", got)
	}
}

func TestExchangeUnquotedTargetsDropped(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.text[ecbDailyRatesURL] = ecbFeedBody

	// XXX is not in the feed; JPY neither. USD is. The unknown ones drop
	// out, and a widget whose targets are all unquoted still succeeds with
	// an empty rate list.
	raw, err := NewExchangeRate(Deps{Fetch: fetch}, exchangeInstance("EUR", "XXX", "USD")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	data := raw.(dto.ExchangeRateData)
	if len(data.Rates) != 1 || data.Rates[0].Currency != "USD" {
		t.Errorf("rates = %+v, want only USD", data.Rates)
	}

	raw, err = NewExchangeRate(Deps{Fetch: fetch}, exchangeInstance("EUR", "XXX", "JPY")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData with no quoted targets: %v", err)
	}
	if got := raw.(dto.ExchangeRateData).Rates; len(got) != 0 {
		t.Errorf("rates = %+v, want empty when nothing is quoted", got)
	}
}
