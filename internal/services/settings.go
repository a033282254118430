package services

import (
	"context"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

// settingsStore is the storage interface for provider settings. Key fields
// cross this boundary in plaintext; encryption at rest is the store's job.
type settingsStore interface {
	Get(ctx context.Context, uid string) (*models.ProviderSettings, error)
	Set(ctx context.Context, uid string, settings *models.ProviderSettings) error
}

// GlobalKeys are the process-wide fallback provider keys, from the
// environment or Secret Manager.
type GlobalKeys struct {
	Weather      string
	News         string
	ExchangeRate string
}

func (g GlobalKeys) key(provider string) string {
	switch provider {
	case models.ProviderWeather:
		return g.Weather
	case models.ProviderNews:
		return g.News
	case models.ProviderExchangeRate:
		return g.ExchangeRate
	}
	return ""
}

type settingsService struct {
	store  settingsStore
	global GlobalKeys
}

func NewSettingsService(store settingsStore, global GlobalKeys) *settingsService {
	return &settingsService{store: store, global: global}
}

// GetSettings reports which keys the user has configured. Key values never
// leave the service.
func (s *settingsService) GetSettings(ctx context.Context, uid string) (dto.ProviderSettingsResponse, error) {
	settings, err := s.store.Get(ctx, uid)
	if err != nil {
		return dto.ProviderSettingsResponse{}, err
	}
	return dto.ProviderSettingsResponse{
		WeatherKeySet:      settings.WeatherAPIKey != "",
		NewsKeySet:         settings.NewsAPIKey != "",
		ExchangeRateKeySet: settings.ExchangeRateAPIKey != "",
	}, nil
}

// UpdateSettings replaces the keys present in the request and keeps the rest.
func (s *settingsService) UpdateSettings(ctx context.Context, uid string, req dto.UpdateProviderSettingsRequest) (dto.ProviderSettingsResponse, error) {
	settings, err := s.store.Get(ctx, uid)
	if err != nil {
		return dto.ProviderSettingsResponse{}, err
	}
	if req.WeatherAPIKey != "" {
		settings.WeatherAPIKey = req.WeatherAPIKey
	}
	if req.NewsAPIKey != "" {
		settings.NewsAPIKey = req.NewsAPIKey
	}
	if req.ExchangeRateAPIKey != "" {
		settings.ExchangeRateAPIKey = req.ExchangeRateAPIKey
	}
	if err := s.store.Set(ctx, uid, settings); err != nil {
		return dto.ProviderSettingsResponse{}, err
	}
	return s.GetSettings(ctx, uid)
}

// ProviderKey resolves the key a widget fetch should use: the user's own key
// when set, the global fallback otherwise. Lookup failures degrade to the
// global key so a settings-store outage does not take widgets down.
func (s *settingsService) ProviderKey(ctx context.Context, uid, provider string) string {
	settings, err := s.store.Get(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Warn("provider settings lookup failed, using global key",
			"provider", provider, "error", err)
		return s.global.key(provider)
	}
	if key := settings.Key(provider); key != "" {
		return key
	}
	return s.global.key(provider)
}
