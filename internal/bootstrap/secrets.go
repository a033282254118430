package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/config"
)

func InitSecrets(ctx context.Context) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx)
}

// LoadGlobalKeys fills any provider key the environment left empty from
// Secret Manager. A missing secret is fine; the provider then only works for
// users who bring their own key.
func LoadGlobalKeys(ctx context.Context, client *secretmanager.Client, cfg *config.Config, log *slog.Logger) error {
	secrets := []struct {
		name  string
		field *string
	}{
		{"widgets-weather-api-key", &cfg.WeatherAPIKey},
		{"widgets-news-api-key", &cfg.NewsAPIKey},
		{"widgets-exchange-rate-api-key", &cfg.ExchangeRateAPIKey},
	}
	for _, s := range secrets {
		if *s.field != "" {
			continue
		}
		value, err := accessSecret(ctx, client, cfg.ProjectID, s.name)
		if status.Code(err) == codes.NotFound {
			log.Info("global provider key not provisioned", "secret", s.name)
			continue
		}
		if err != nil {
			return err
		}
		*s.field = value
	}
	return nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, projectID, name string) (string, error) {
	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
	})
	if err != nil {
		return "", err
	}
	return string(res.Payload.Data), nil
}
