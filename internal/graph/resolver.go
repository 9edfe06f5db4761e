package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/ErlanBelekov/habit-tracker/internal/domain"
	"github.com/ErlanBelekov/habit-tracker/internal/identity"
	"github.com/ErlanBelekov/habit-tracker/internal/usecase"
)

// Resolver is the full resolver set: one method per schema field. Resolvers
// read the verified identity from the request context and hand owner-scoped
// calls to the usecase; they never see another user's records.
type Resolver struct {
	habits *usecase.HabitUsecase
	logger *slog.Logger
}

func NewResolver(habits *usecase.HabitUsecase, logger *slog.Logger) *Resolver {
	return &Resolver{habits: habits, logger: logger.With("component", "resolver")}
}

// caller extracts the verified identity. The transport gate rejects
// anonymous requests before resolution; this is the backstop for callers
// that wire the schema without the gate.
func caller(p graphql.ResolveParams) (identity.Identity, error) {
	id, ok := identity.FromContext(p.Context)
	if !ok {
		return identity.Identity{}, &FieldError{Code: CodeUnauthenticated, Message: "authentication required"}
	}
	return id, nil
}

func (r *Resolver) Habits(p graphql.ResolveParams) (interface{}, error) {
	id, err := caller(p)
	if err != nil {
		return nil, err
	}

	habits, err := r.habits.List(p.Context, id.Subject)
	if err != nil {
		return nil, r.fieldError(p.Context, err)
	}
	if habits == nil {
		habits = []*domain.Habit{}
	}
	return habits, nil
}

func (r *Resolver) CreateHabit(p graphql.ResolveParams) (interface{}, error) {
	id, err := caller(p)
	if err != nil {
		return nil, err
	}

	habit, err := r.habits.Create(p.Context, id.Subject, habitInput(p))
	if err != nil {
		return nil, r.fieldError(p.Context, err)
	}
	return habit, nil
}

func (r *Resolver) UpdateHabit(p graphql.ResolveParams) (interface{}, error) {
	id, err := caller(p)
	if err != nil {
		return nil, err
	}

	habitID, _ := p.Args["id"].(string)
	habit, err := r.habits.Update(p.Context, habitID, id.Subject, habitInput(p))
	if err != nil {
		return nil, r.fieldError(p.Context, err)
	}
	return habit, nil
}

func (r *Resolver) DeleteHabit(p graphql.ResolveParams) (interface{}, error) {
	id, err := caller(p)
	if err != nil {
		return nil, err
	}

	habitID, _ := p.Args["id"].(string)
	habit, err := r.habits.Delete(p.Context, habitID, id.Subject)
	if err != nil {
		return nil, r.fieldError(p.Context, err)
	}
	return habit, nil
}

func habitInput(p graphql.ResolveParams) usecase.HabitInput {
	in, _ := p.Args["input"].(map[string]interface{})
	title, _ := in["title"].(string)
	return usecase.HabitInput{Title: title}
}

// fieldError maps internal failures to the client-facing taxonomy. Raw
// store errors never cross this boundary; they are logged and replaced with
// a generic transient-failure code.
func (r *Resolver) fieldError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle):
		return &FieldError{Code: CodeValidationFailed, Message: "title must not be empty"}
	case errors.Is(err, domain.ErrHabitNotFound):
		return &FieldError{Code: CodeNotFound, Message: "habit not found"}
	default:
		r.logger.ErrorContext(ctx, "resolver failure", "error", err)
		return &FieldError{Code: CodeUpstreamUnavailable, Message: "service temporarily unavailable"}
	}
}
