package widgets

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const (
	owmCurrentURL  = "https://api.openweathermap.org/data/2.5/weather"
	owmForecastURL = "https://api.openweathermap.org/data/2.5/forecast"

	forecastMaxDays = 5
	noonMinute      = 12 * 60
)

type weatherWidget struct {
	deps Deps
	inst Instance
}

// NewWeather is the factory for the weather widget.
func NewWeather(deps Deps, inst Instance) Widget {
	return &weatherWidget{deps: deps, inst: inst}
}

func (w *weatherWidget) Instance() Instance { return w.inst }

func (w *weatherWidget) now() time.Time { return w.deps.now() }

func (w *weatherWidget) ValidateConfig() error {
	if w.inst.Config.Location == "" {
		return errs.NewValidationError("config.location is required for weather")
	}
	switch w.inst.Config.Units {
	case "", "metric", "imperial", "standard":
	default:
		return errs.NewValidationError("config.units must be one of: metric, imperial, standard")
	}
	return nil
}

func (w *weatherWidget) units() string {
	if w.inst.Config.Units == "" {
		return "metric"
	}
	return w.inst.Config.Units
}

// ---- Provider response shapes ----

type owmCurrentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type owmForecastResponse struct {
	City struct {
		Timezone int `json:"timezone"` // seconds east of UTC
	} `json:"city"`
	List []owmForecastSample `json:"list"`
}

type owmForecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// FetchData calls the current-weather endpoint and, unless disabled by
// config, the 5-day forecast. A forecast failure is logged and the forecast
// omitted; it never fails the whole fetch.
func (w *weatherWidget) FetchData(ctx context.Context) (any, error) {
	key := w.deps.providerKey(ctx, w.inst, models.ProviderWeather)
	if key == "" {
		return nil, fmt.Errorf("no API key available for weather provider")
	}

	params := url.Values{
		"q":     {w.inst.Config.Location},
		"units": {w.units()},
		"appid": {key},
	}
	var cur owmCurrentResponse
	if err := w.deps.Fetch.GetJSON(ctx, owmCurrentURL, params, nil, &cur); err != nil {
		return nil, err
	}

	payload := dto.WeatherData{
		Location:    cur.Name,
		Units:       w.units(),
		Temperature: roundTo(cur.Main.Temp, 1),
		FeelsLike:   roundTo(cur.Main.FeelsLike, 1),
		Humidity:    cur.Main.Humidity,
		Pressure:    cur.Main.Pressure,
		WindSpeed:   cur.Wind.Speed,
	}
	if payload.Location == "" {
		payload.Location = w.inst.Config.Location
	}
	if len(cur.Weather) > 0 {
		payload.Description = cur.Weather[0].Description
		payload.Icon = cur.Weather[0].Icon
	}

	if helpers.ValueOr(w.inst.Config.ShowForecast, true) {
		forecast, err := w.fetchForecast(ctx, cur.Coord.Lat, cur.Coord.Lon, key)
		if err != nil {
			logger.FromContext(ctx).Warn("forecast fetch failed, omitting forecast",
				"widget_id", w.inst.ID, "error", err)
		} else {
			payload.Forecast = forecast
		}
	}

	return payload, nil
}

// fetchForecast reduces the provider's 3-hourly samples to one per calendar
// day: the sample timestamped nearest local noon, capped at five days.
func (w *weatherWidget) fetchForecast(ctx context.Context, lat, lon float64, key string) ([]dto.ForecastDay, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", lat)},
		"lon":   {fmt.Sprintf("%.4f", lon)},
		"units": {w.units()},
		"appid": {key},
	}
	var resp owmForecastResponse
	if err := w.deps.Fetch.GetJSON(ctx, owmForecastURL, params, nil, &resp); err != nil {
		return nil, err
	}

	type candidate struct {
		sample   owmForecastSample
		noonDiff int
	}
	zone := time.FixedZone("provider", resp.City.Timezone)
	byDay := make(map[string]candidate)
	for _, sample := range resp.List {
		local := time.Unix(sample.Dt, 0).In(zone)
		day := local.Format("2006-01-02")
		diff := local.Hour()*60 + local.Minute() - noonMinute
		if diff < 0 {
			diff = -diff
		}
		if best, ok := byDay[day]; !ok || diff < best.noonDiff {
			byDay[day] = candidate{sample: sample, noonDiff: diff}
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > forecastMaxDays {
		days = days[:forecastMaxDays]
	}

	out := make([]dto.ForecastDay, 0, len(days))
	for _, day := range days {
		sample := byDay[day].sample
		fd := dto.ForecastDay{
			Date:        day,
			Temperature: roundTo(sample.Main.Temp, 1),
			TempMin:     roundTo(sample.Main.TempMin, 1),
			TempMax:     roundTo(sample.Main.TempMax, 1),
		}
		if len(sample.Weather) > 0 {
			fd.Description = sample.Weather[0].Description
			fd.Icon = sample.Weather[0].Icon
		}
		out = append(out, fd)
	}
	return out, nil
}
