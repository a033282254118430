package dto

// WeatherData is the payload of a weather widget fetch.
type WeatherData struct {
	Location    string        `json:"location"`
	Units       string        `json:"units"`
	Temperature float64       `json:"temperature"`
	FeelsLike   float64       `json:"feelsLike"`
	Humidity    int           `json:"humidity"`
	Pressure    int           `json:"pressure"`
	WindSpeed   float64       `json:"windSpeed"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Forecast    []ForecastDay `json:"forecast,omitempty"`
}

// ForecastDay is one calendar day of the 5-day forecast, represented by the
// sample closest to local noon.
type ForecastDay struct {
	Date        string  `json:"date"` // YYYY-MM-DD, provider-local
	Temperature float64 `json:"temperature"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}
