package domain

import (
	"errors"
	"time"
)

var (
	// ErrHabitNotFound covers both a genuinely absent id and an id owned by
	// a different user. Callers must not be able to tell the two apart.
	ErrHabitNotFound = errors.New("habit not found")
	ErrEmptyTitle    = errors.New("habit title must not be empty")
)

// Habit is the only persisted entity. ID is assigned by the store on
// creation; OwnerID is bound to the verified caller at creation and never
// changes afterwards.
type Habit struct {
	ID      string
	OwnerID string
	Title   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
