package models

import "time"

// Habit is a recurring practice tracked by its owner. The habit-tracking
// widget reads habits; it never writes them.
type Habit struct {
	HabitID     string    `firestore:"habitId" json:"habitId"`
	UserID      string    `firestore:"userId" json:"userId"`
	Name        string    `firestore:"name" json:"name"`
	Description string    `firestore:"description" json:"description,omitempty"`
	Active      bool      `firestore:"active" json:"active"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// HabitCompletion records one calendar day of a habit, unique per
// (habit, date). Date is YYYY-MM-DD.
type HabitCompletion struct {
	HabitID   string    `firestore:"habitId" json:"habitId"`
	UserID    string    `firestore:"userId" json:"userId"`
	Date      string    `firestore:"date" json:"date"`
	Completed bool      `firestore:"completed" json:"completed"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
