package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
)

const habitDateLayout = "2006-01-02"

// habitStore is the Firestore storage interface for habits.
type habitStore interface {
	CreateHabit(ctx context.Context, uid string, h *models.Habit) error
	GetHabit(ctx context.Context, uid, habitID string) (*models.Habit, error)
	ListHabits(ctx context.Context, uid string) ([]*models.Habit, error)
	UpdateHabit(ctx context.Context, uid string, h *models.Habit) error
	DeleteHabit(ctx context.Context, uid, habitID string) error
	SetCompletion(ctx context.Context, uid string, c *models.HabitCompletion) error
	ListCompletions(ctx context.Context, uid, habitID, from, to string) ([]models.HabitCompletion, error)
}

type habitsService struct {
	store    habitStore
	clockNow func() time.Time
}

func NewHabitsService(store habitStore) *habitsService {
	return &habitsService{store: store, clockNow: time.Now}
}

func (s *habitsService) CreateHabit(ctx context.Context, uid string, req dto.CreateHabitRequest) (*models.Habit, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	h := &models.Habit{
		HabitID:     uuid.New().String(),
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.store.CreateHabit(ctx, uid, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *habitsService) ListHabits(ctx context.Context, uid string) ([]*models.Habit, error) {
	return s.store.ListHabits(ctx, uid)
}

func (s *habitsService) GetHabit(ctx context.Context, uid, habitID string) (*models.Habit, error) {
	return s.store.GetHabit(ctx, uid, habitID)
}

func (s *habitsService) SetActive(ctx context.Context, uid, habitID string, active bool) (*models.Habit, error) {
	h, err := s.store.GetHabit(ctx, uid, habitID)
	if err != nil {
		return nil, err
	}
	h.Active = active
	if err := s.store.UpdateHabit(ctx, uid, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *habitsService) DeleteHabit(ctx context.Context, uid, habitID string) error {
	if _, err := s.store.GetHabit(ctx, uid, habitID); err != nil {
		return err
	}
	return s.store.DeleteHabit(ctx, uid, habitID)
}

// SetCompletion marks one day of a habit. An empty date means today; future
// dates are rejected.
func (s *habitsService) SetCompletion(ctx context.Context, uid, habitID string, req dto.SetCompletionRequest) error {
	if _, err := s.store.GetHabit(ctx, uid, habitID); err != nil {
		return err
	}

	today := s.clockNow().UTC().Format(habitDateLayout)
	date := req.Date
	if date == "" {
		date = today
	}
	parsed, err := time.Parse(habitDateLayout, date)
	if err != nil {
		return errs.NewValidationError("date must be YYYY-MM-DD")
	}
	if parsed.Format(habitDateLayout) > today {
		return errs.NewValidationError("date must not be in the future")
	}

	return s.store.SetCompletion(ctx, uid, &models.HabitCompletion{
		HabitID:   habitID,
		UserID:    uid,
		Date:      date,
		Completed: req.Completed,
	})
}

// ListCompletions returns a habit's completions for an inclusive date range.
// Empty bounds default to the last 30 days.
func (s *habitsService) ListCompletions(ctx context.Context, uid, habitID, from, to string) ([]models.HabitCompletion, error) {
	if _, err := s.store.GetHabit(ctx, uid, habitID); err != nil {
		return nil, err
	}

	now := s.clockNow().UTC()
	if to == "" {
		to = now.Format(habitDateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -30).Format(habitDateLayout)
	}
	for _, bound := range []string{from, to} {
		if _, err := time.Parse(habitDateLayout, bound); err != nil {
			return nil, errs.NewValidationError("from and to must be YYYY-MM-DD")
		}
	}
	if from > to {
		return nil, errs.NewValidationError("from must not be after to")
	}
	return s.store.ListCompletions(ctx, uid, habitID, from, to)
}
