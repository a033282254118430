package config

import (
	"os"
	"time"
)

type Config struct {
	ProjectID  string
	LogLevel   string
	Port       string
	KMSKeyName string
	RedisAddr  string

	// Process-wide fallback provider keys; per-user keys from the settings
	// store take precedence over these.
	WeatherAPIKey      string
	NewsAPIKey         string
	ExchangeRateAPIKey string

	FetchTimeout time.Duration
}

func New() *Config {
	return &Config{
		ProjectID:          os.Getenv("PROJECTID"),
		LogLevel:           os.Getenv("LOGLEVEL"),
		Port:               getEnvDefault("PORT", "8080"),
		KMSKeyName:         os.Getenv("KMSKEYNAME"),
		RedisAddr:          os.Getenv("REDISADDR"),
		WeatherAPIKey:      os.Getenv("WEATHERAPIKEY"),
		NewsAPIKey:         os.Getenv("NEWSAPIKEY"),
		ExchangeRateAPIKey: os.Getenv("EXCHANGERATEAPIKEY"),
		FetchTimeout:       10 * time.Second,
	}
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
