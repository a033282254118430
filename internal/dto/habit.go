package dto

// HabitData is the payload of a habit_tracking widget fetch. Habits is empty
// (not an error) when the configured habit is missing or inactive.
type HabitData struct {
	Habits    []HabitStatus `json:"habits"`
	StartDate string        `json:"startDate"` // YYYY-MM-DD, inclusive
	EndDate   string        `json:"endDate"`   // YYYY-MM-DD, inclusive (today)
}

type HabitStatus struct {
	HabitID        string     `json:"habitId"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Days           []HabitDay `json:"days"` // the 7-day display window
	Streak         int        `json:"streak"`
	CompletedToday bool       `json:"completedToday"`
}

type HabitDay struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// --- Habit API request types ---

type CreateHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SetCompletionRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD; empty means today
	Completed bool   `json:"completed"`
}
