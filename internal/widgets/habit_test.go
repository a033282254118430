package widgets

import (
	"testing"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
)

var habitNow = time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

func habitDeps(habits *fakeHabits) Deps {
	return Deps{Habits: habits, ClockNow: func() time.Time { return habitNow }}
}

func habitInstance(habitID string) Instance {
	inst := enabledInstance("w1", models.WidgetTypeHabitTracking)
	inst.Config = models.WidgetConfig{HabitID: habitID}
	return inst
}

func runHabit(daysAgo ...int) *fakeHabits {
	f := &fakeHabits{habit: &models.Habit{HabitID: "h1", UserID: "user-1", Name: "Run", Active: true}}
	for _, d := range daysAgo {
		f.completions = append(f.completions, models.HabitCompletion{
			HabitID: "h1", UserID: "user-1",
			Date:      habitNow.AddDate(0, 0, -d).Format(dateLayout),
			Completed: true,
		})
	}
	return f
}

func TestHabitValidateConfig(t *testing.T) {
	if err := NewHabitTracking(Deps{}, habitInstance("")).ValidateConfig(); err == nil {
		t.Error("ValidateConfig accepted an empty habitId")
	}
	if err := NewHabitTracking(Deps{}, habitInstance("h1")).ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig: %v", err)
	}
}

func TestHabitStreakContinuous(t *testing.T) {
	// Today plus the two previous days completed.
	habits := runHabit(0, 1, 2)
	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	status := raw.(dto.HabitData).Habits[0]

	if status.Streak != 3 {
		t.Errorf("Streak = %d, want 3", status.Streak)
	}
	if !status.CompletedToday {
		t.Error("CompletedToday = false, want true")
	}
}

func TestHabitStreakTodayNotYetDone(t *testing.T) {
	// The four days before today completed, today still open.
	habits := runHabit(1, 2, 3, 4)
	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	status := raw.(dto.HabitData).Habits[0]

	if status.Streak != 4 {
		t.Errorf("Streak = %d, want 4 (today open does not break the streak)", status.Streak)
	}
	if status.CompletedToday {
		t.Error("CompletedToday = true, want false")
	}
}

func TestHabitStreakBrokenByExplicitMiss(t *testing.T) {
	// Today done, yesterday explicitly marked not completed, older days done.
	habits := runHabit(0, 2, 3)
	habits.completions = append(habits.completions, models.HabitCompletion{
		HabitID: "h1", UserID: "user-1",
		Date:      habitNow.AddDate(0, 0, -1).Format(dateLayout),
		Completed: false,
	})

	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := raw.(dto.HabitData).Habits[0].Streak; got != 1 {
		t.Errorf("Streak = %d, want 1", got)
	}
}

func TestHabitStreakTodayExplicitlyMissed(t *testing.T) {
	// Today recorded as not completed ends the streak outright, even with
	// the previous three days done.
	habits := runHabit(1, 2, 3)
	habits.completions = append(habits.completions, models.HabitCompletion{
		HabitID: "h1", UserID: "user-1",
		Date:      habitNow.Format(dateLayout),
		Completed: false,
	})

	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := raw.(dto.HabitData).Habits[0].Streak; got != 0 {
		t.Errorf("Streak = %d, want 0", got)
	}
}

func TestHabitStreakZero(t *testing.T) {
	habits := runHabit(3, 4)
	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := raw.(dto.HabitData).Habits[0].Streak; got != 0 {
		t.Errorf("Streak = %d, want 0", got)
	}
}

func TestHabitWindowIsSevenDays(t *testing.T) {
	habits := runHabit(0, 6)
	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	data := raw.(dto.HabitData)
	status := data.Habits[0]

	if len(status.Days) != habitWindowDays {
		t.Fatalf("window = %d days, want %d", len(status.Days), habitWindowDays)
	}
	if status.Days[0].Date != "2026-08-24" || status.Days[6].Date != "2026-08-30" {
		t.Errorf("window = [%s..%s], want [2026-08-24..2026-08-30]",
			status.Days[0].Date, status.Days[6].Date)
	}
	if !status.Days[0].Completed || !status.Days[6].Completed {
		t.Error("window edge completions missing")
	}
	if status.Days[3].Completed {
		t.Error("uncompleted day marked completed")
	}
	if data.StartDate != "2026-08-24" || data.EndDate != "2026-08-30" {
		t.Errorf("range = [%s..%s]", data.StartDate, data.EndDate)
	}
}

func TestHabitMissingYieldsEmptyList(t *testing.T) {
	habits := &fakeHabits{} // no habit at all
	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("ghost")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := raw.(dto.HabitData).Habits; len(got) != 0 {
		t.Errorf("Habits = %+v, want empty for a missing habit", got)
	}
}

func TestHabitInactiveYieldsEmptyList(t *testing.T) {
	habits := runHabit(0, 1)
	habits.habit.Active = false
	raw, err := NewHabitTracking(habitDeps(habits), habitInstance("h1")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := raw.(dto.HabitData).Habits; len(got) != 0 {
		t.Errorf("Habits = %+v, want empty for an inactive habit", got)
	}
}
