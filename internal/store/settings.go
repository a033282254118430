package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
)

// Crypter encrypts settings fields at rest. Nil-safe wiring is the caller's
// job: the store requires a crypter.
type Crypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type settingsStore struct {
	client  *firestore.Client
	crypter Crypter
}

func NewSettingsStore(client *firestore.Client, crypter Crypter) *settingsStore {
	return &settingsStore{client: client, crypter: crypter}
}

func (s *settingsStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("settings").Doc("providers")
}

// Get returns the user's provider settings with key fields decrypted. A user
// with no settings document gets an empty struct, not an error.
func (s *settingsStore) Get(ctx context.Context, uid string) (*models.ProviderSettings, error) {
	doc, err := s.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &models.ProviderSettings{}, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get provider settings", err)
	}
	var settings models.ProviderSettings
	if err := doc.DataTo(&settings); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse provider settings", err)
	}
	if err := s.applyKeys(ctx, &settings, s.crypter.Decrypt); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Set writes the user's provider settings, encrypting key fields first. The
// caller passes the full desired state; empty key fields clear the stored key.
func (s *settingsStore) Set(ctx context.Context, uid string, settings *models.ProviderSettings) error {
	stored := *settings
	stored.UpdatedAt = time.Now()
	if err := s.applyKeys(ctx, &stored, s.crypter.Encrypt); err != nil {
		return err
	}
	if _, err := s.doc(uid).Set(ctx, &stored); err != nil {
		return errs.NewDatabaseError("update", "failed to set provider settings", err)
	}
	return nil
}

func (s *settingsStore) applyKeys(ctx context.Context, settings *models.ProviderSettings, apply func(context.Context, string) (string, error)) error {
	for _, field := range []*string{
		&settings.WeatherAPIKey,
		&settings.NewsAPIKey,
		&settings.ExchangeRateAPIKey,
	} {
		if *field == "" {
			continue
		}
		out, err := apply(ctx, *field)
		if err != nil {
			return err
		}
		*field = out
	}
	return nil
}
