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

type userStore struct {
	client *firestore.Client
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{client: client}
}

func (s *userStore) collection() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *userStore) Get(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.collection().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

// Upsert creates the user row on first sign-in and refreshes the profile
// fields on subsequent ones, leaving createdAt untouched.
func (s *userStore) Upsert(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.UpdatedAt = now

	ref := s.collection().Doc(user.UID)
	_, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		user.CreatedAt = now
		if _, err := ref.Set(ctx, user); err != nil {
			return errs.NewDatabaseError("create", "failed to create user", err)
		}
		return nil
	}
	if err != nil {
		return errs.NewDatabaseError("read", "failed to get user", err)
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "email", Value: user.Email},
		{Path: "firstName", Value: user.FirstName},
		{Path: "lastName", Value: user.LastName},
		{Path: "updatedAt", Value: user.UpdatedAt},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update user", err)
	}
	return nil
}
