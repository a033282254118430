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

type habitStore struct {
	client *firestore.Client
}

func NewHabitStore(client *firestore.Client) *habitStore {
	return &habitStore{client: client}
}

func (s *habitStore) habits(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("habits")
}

// completions are keyed by date, which makes SetCompletion idempotent per
// (habit, day).
func (s *habitStore) completions(uid, habitID string) *firestore.CollectionRef {
	return s.habits(uid).Doc(habitID).Collection("completions")
}

func (s *habitStore) CreateHabit(ctx context.Context, uid string, h *models.Habit) error {
	now := time.Now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	_, err := s.habits(uid).Doc(h.HabitID).Set(ctx, h)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create habit", err)
	}
	return nil
}

func (s *habitStore) GetHabit(ctx context.Context, uid, habitID string) (*models.Habit, error) {
	doc, err := s.habits(uid).Doc(habitID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("habit not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get habit", err)
	}
	var h models.Habit
	if err := doc.DataTo(&h); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse habit data", err)
	}
	return &h, nil
}

func (s *habitStore) ListHabits(ctx context.Context, uid string) ([]*models.Habit, error) {
	docs, err := s.habits(uid).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list habits", err)
	}
	habits := make([]*models.Habit, 0, len(docs))
	for _, d := range docs {
		var h models.Habit
		if err := d.DataTo(&h); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse habit data", err)
		}
		habits = append(habits, &h)
	}
	return habits, nil
}

func (s *habitStore) UpdateHabit(ctx context.Context, uid string, h *models.Habit) error {
	h.UpdatedAt = time.Now()
	_, err := s.habits(uid).Doc(h.HabitID).Set(ctx, h)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update habit", err)
	}
	return nil
}

// DeleteHabit removes the habit row and its completion history.
func (s *habitStore) DeleteHabit(ctx context.Context, uid, habitID string) error {
	docs, err := s.completions(uid, habitID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to list habit completions", err)
	}
	bw := s.client.BulkWriter(ctx)
	for _, d := range docs {
		if _, err := bw.Delete(d.Ref); err != nil {
			return errs.NewDatabaseError("delete", "failed to schedule completion delete", err)
		}
	}
	bw.End()

	if _, err := s.habits(uid).Doc(habitID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete habit", err)
	}
	return nil
}

func (s *habitStore) SetCompletion(ctx context.Context, uid string, c *models.HabitCompletion) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.completions(uid, c.HabitID).Doc(c.Date).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to set habit completion", err)
	}
	return nil
}

func (s *habitStore) ListCompletions(ctx context.Context, uid, habitID, from, to string) ([]models.HabitCompletion, error) {
	query := s.completions(uid, habitID).
		Where("date", ">=", from).
		Where("date", "<=", to).
		OrderBy("date", firestore.Asc)
	return s.readCompletions(ctx, query.Documents(ctx))
}

func (s *habitStore) ListAllCompletions(ctx context.Context, uid, habitID string) ([]models.HabitCompletion, error) {
	query := s.completions(uid, habitID).OrderBy("date", firestore.Asc)
	return s.readCompletions(ctx, query.Documents(ctx))
}

func (s *habitStore) readCompletions(_ context.Context, iter *firestore.DocumentIterator) ([]models.HabitCompletion, error) {
	docs, err := iter.GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list habit completions", err)
	}
	out := make([]models.HabitCompletion, 0, len(docs))
	for _, d := range docs {
		var c models.HabitCompletion
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse completion data", err)
		}
		out = append(out, c)
	}
	return out, nil
}
