package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
)

type stubHabitsService struct {
	habit       *models.Habit
	habits      []*models.Habit
	completions []models.HabitCompletion
	err         error

	lastUID        string
	lastHabitID    string
	lastActive     bool
	lastCompletion dto.SetCompletionRequest
	lastFrom       string
	lastTo         string
}

func (s *stubHabitsService) CreateHabit(_ context.Context, uid string, _ dto.CreateHabitRequest) (*models.Habit, error) {
	s.lastUID = uid
	return s.habit, s.err
}

func (s *stubHabitsService) ListHabits(_ context.Context, uid string) ([]*models.Habit, error) {
	s.lastUID = uid
	return s.habits, s.err
}

func (s *stubHabitsService) GetHabit(_ context.Context, uid, habitID string) (*models.Habit, error) {
	s.lastUID, s.lastHabitID = uid, habitID
	return s.habit, s.err
}

func (s *stubHabitsService) SetActive(_ context.Context, uid, habitID string, active bool) (*models.Habit, error) {
	s.lastUID, s.lastHabitID, s.lastActive = uid, habitID, active
	return s.habit, s.err
}

func (s *stubHabitsService) DeleteHabit(_ context.Context, uid, habitID string) error {
	s.lastUID, s.lastHabitID = uid, habitID
	return s.err
}

func (s *stubHabitsService) SetCompletion(_ context.Context, uid, habitID string, req dto.SetCompletionRequest) error {
	s.lastUID, s.lastHabitID, s.lastCompletion = uid, habitID, req
	return s.err
}

func (s *stubHabitsService) ListCompletions(_ context.Context, uid, habitID, from, to string) ([]models.HabitCompletion, error) {
	s.lastUID, s.lastHabitID, s.lastFrom, s.lastTo = uid, habitID, from, to
	return s.completions, s.err
}

func TestCreateHabitHandler(t *testing.T) {
	svc := &stubHabitsService{habit: &models.Habit{HabitID: "h1", Name: "Run"}}
	resp := &stubResponseHandler{}
	h := NewHabitHandlers(&Deps{ResponseHandler: resp, HabitsSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodPost, "/habits", strings.NewReader(`{"name":"Run"}`)), "uid-123")
	h.CreateHabit(httptest.NewRecorder(), req)

	if svc.lastUID != "uid-123" {
		t.Errorf("uid = %q, want uid-123", svc.lastUID)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Error("expected WriteSuccess with 201")
	}
}

func TestSetActiveHandler(t *testing.T) {
	svc := &stubHabitsService{habit: &models.Habit{HabitID: "h1"}}
	resp := &stubResponseHandler{}
	h := NewHabitHandlers(&Deps{ResponseHandler: resp, HabitsSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodPut, "/h1/active", strings.NewReader(`{"active":false}`)), "uid-123")
	h.HabitRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastHabitID != "h1" || svc.lastActive {
		t.Errorf("habitID=%q active=%v, want h1 false", svc.lastHabitID, svc.lastActive)
	}
}

func TestSetCompletionHandlerBadBody(t *testing.T) {
	svc := &stubHabitsService{}
	resp := &stubResponseHandler{}
	h := NewHabitHandlers(&Deps{ResponseHandler: resp, HabitsSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodPut, "/h1/completions", strings.NewReader("nope")), "uid-123")
	h.HabitRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError for malformed body")
	}
	if svc.lastHabitID != "" {
		t.Error("service called despite malformed body")
	}
}

func TestListCompletionsHandlerRange(t *testing.T) {
	svc := &stubHabitsService{completions: []models.HabitCompletion{{Date: "2026-08-29", Completed: true}}}
	resp := &stubResponseHandler{}
	h := NewHabitHandlers(&Deps{ResponseHandler: resp, HabitsSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/h1/completions?from=2026-08-01&to=2026-08-30", nil), "uid-123")
	h.HabitRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastFrom != "2026-08-01" || svc.lastTo != "2026-08-30" {
		t.Errorf("range = %q..%q", svc.lastFrom, svc.lastTo)
	}
	if !resp.writeSuccessCalled {
		t.Error("expected WriteSuccess")
	}
}

func TestDeleteHabitHandlerError(t *testing.T) {
	svc := &stubHabitsService{err: errs.NewNotFoundError("habit not found")}
	resp := &stubResponseHandler{}
	h := NewHabitHandlers(&Deps{ResponseHandler: resp, HabitsSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodDelete, "/h1", nil), "uid-123")
	h.HabitRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled {
		t.Error("expected HandleError for service failure")
	}
}
