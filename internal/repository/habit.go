package repository

import (
	"context"

	"github.com/ErlanBelekov/habit-tracker/internal/domain"
)

// HabitRepository is the persistence boundary for habits. Every operation
// that targets an existing record takes the owner's identity and enforces
// the scoping inside the operation itself, so no caller can reach another
// user's record by id alone. A record that exists under a different owner
// is indistinguishable from one that does not exist.
//
// UseCase depends on the interface, not the concrete implementation, so the
// store can be swapped and tests can pass a fake.
type HabitRepository interface {
	List(ctx context.Context, ownerID string) ([]*domain.Habit, error)
	Create(ctx context.Context, ownerID, title string) (*domain.Habit, error)
	UpdateTitle(ctx context.Context, habitID, ownerID, title string) (*domain.Habit, error)
	// Delete removes the record and returns it as it existed immediately
	// before deletion.
	Delete(ctx context.Context, habitID, ownerID string) (*domain.Habit, error)
}
