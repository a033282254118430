package widgets

import (
	"context"
	"errors"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const (
	habitWindowDays = 7
	dateLayout      = "2006-01-02"
)

type habitWidget struct {
	deps Deps
	inst Instance
}

// NewHabitTracking is the factory for the habit tracking widget. Unlike the
// other widgets it reads local data, not an external provider.
func NewHabitTracking(deps Deps, inst Instance) Widget {
	return &habitWidget{deps: deps, inst: inst}
}

func (w *habitWidget) Instance() Instance { return w.inst }

func (w *habitWidget) now() time.Time { return w.deps.now() }

func (w *habitWidget) ValidateConfig() error {
	if w.inst.Config.HabitID == "" {
		return errs.NewValidationError("config.habitId is required for habit tracking")
	}
	return nil
}

// FetchData builds the 7-day completion window ending today plus the current
// streak. A missing or inactive habit yields an empty habit list rather than
// an error, so the widget renders empty instead of erroring.
func (w *habitWidget) FetchData(ctx context.Context) (any, error) {
	today := w.deps.now().UTC()
	start := today.AddDate(0, 0, -(habitWindowDays - 1))
	data := dto.HabitData{
		Habits:    []dto.HabitStatus{},
		StartDate: start.Format(dateLayout),
		EndDate:   today.Format(dateLayout),
	}

	habit, err := w.deps.Habits.GetHabit(ctx, w.inst.UserID, w.inst.Config.HabitID)
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			logger.FromContext(ctx).Warn("configured habit not found",
				"widget_id", w.inst.ID, "habit_id", w.inst.Config.HabitID)
			return data, nil
		}
		return nil, err
	}
	if !habit.Active {
		return data, nil
	}

	completions, err := w.deps.Habits.ListAllCompletions(ctx, w.inst.UserID, habit.HabitID)
	if err != nil {
		return nil, err
	}
	completed := completionRecords(completions)

	status := dto.HabitStatus{
		HabitID:        habit.HabitID,
		Name:           habit.Name,
		Description:    habit.Description,
		Days:           make([]dto.HabitDay, 0, habitWindowDays),
		Streak:         streak(completed, today),
		CompletedToday: completed[today.Format(dateLayout)],
	}
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		status.Days = append(status.Days, dto.HabitDay{Date: date, Completed: completed[date]})
	}
	data.Habits = append(data.Habits, status)
	return data, nil
}

// completionRecords maps every recorded date to its completed flag. Presence
// matters: a date explicitly marked not-completed is a different thing from a
// date with no record.
func completionRecords(completions []models.HabitCompletion) map[string]bool {
	records := make(map[string]bool, len(completions))
	for _, c := range completions {
		records[c.Date] = c.Completed
	}
	return records
}

// streak counts consecutive completed days scanning backwards. Today without
// a record does not break the streak; the scan then starts yesterday. Today
// explicitly marked not-completed does.
func streak(records map[string]bool, today time.Time) int {
	day := today
	if done, recorded := records[day.Format(dateLayout)]; !recorded {
		day = day.AddDate(0, 0, -1)
	} else if !done {
		return 0
	}
	count := 0
	for records[day.Format(dateLayout)] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
