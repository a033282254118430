package services

import (
	"context"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

type userStore interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

type userService struct {
	store userStore
}

func NewUserService(store userStore) *userService {
	return &userService{store: store}
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.store.Get(ctx, uid)
}

// UpsertUser records the authenticated user's profile on sign-in.
func (s *userService) UpsertUser(ctx context.Context, uid string, req dto.UpsertUserRequest) (*models.User, error) {
	if req.Email == "" {
		return nil, errs.NewValidationError("email is required")
	}
	user := &models.User{
		UID:       uid,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.store.Upsert(ctx, user); err != nil {
		logger.FromContext(ctx).Error("failed to upsert user", "error", err)
		return nil, err
	}
	return user, nil
}
