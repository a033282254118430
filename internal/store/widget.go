package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
)

const widgetCollection = "widgets"

type widgetStore struct {
	client *firestore.Client
}

func NewWidgetStore(client *firestore.Client) *widgetStore {
	return &widgetStore{client: client}
}

func (s *widgetStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection(widgetCollection)
}

func (s *widgetStore) Create(ctx context.Context, uid string, w *models.Widget) error {
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	_, err := s.collection(uid).Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create widget", err)
	}
	return nil
}

func (s *widgetStore) Get(ctx context.Context, uid, widgetID string) (*models.Widget, error) {
	doc, err := s.collection(uid).Doc(widgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("widget not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get widget", err)
	}
	var w models.Widget
	if err := doc.DataTo(&w); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse widget data", err)
	}
	return &w, nil
}

func (s *widgetStore) List(ctx context.Context, uid string) ([]*models.Widget, error) {
	docs, err := s.collection(uid).
		OrderBy("position.row", firestore.Asc).
		OrderBy("position.col", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list widgets", err)
	}
	widgets := make([]*models.Widget, 0, len(docs))
	for _, d := range docs {
		var w models.Widget
		if err := d.DataTo(&w); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse widget data", err)
		}
		widgets = append(widgets, &w)
	}
	return widgets, nil
}

func (s *widgetStore) Update(ctx context.Context, uid string, w *models.Widget) error {
	w.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update widget", err)
	}
	return nil
}

func (s *widgetStore) Delete(ctx context.Context, uid, widgetID string) error {
	_, err := s.collection(uid).Doc(widgetID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete widget", err)
	}
	return nil
}

// ListEnabled returns every enabled widget across all users, for the
// background scheduler. It is a collection-group query, so it needs the
// composite index on (enabled) over the widgets group.
func (s *widgetStore) ListEnabled(ctx context.Context) ([]*models.Widget, error) {
	iter := s.client.CollectionGroup(widgetCollection).
		Where("enabled", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var widgets []*models.Widget
	for {
		d, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list enabled widgets", err)
		}
		var w models.Widget
		if err := d.DataTo(&w); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse widget data", err)
		}
		widgets = append(widgets, &w)
	}
	return widgets, nil
}
