package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ErlanBelekov/habit-tracker/internal/domain"
	"github.com/ErlanBelekov/habit-tracker/internal/repository"
)

type HabitUsecase struct {
	repo     repository.HabitRepository
	validate *validator.Validate
}

func NewHabitUsecase(repo repository.HabitRepository) *HabitUsecase {
	return &HabitUsecase{repo: repo, validate: validator.New()}
}

type HabitInput struct {
	Title string `validate:"required,max=500"`
}

// checkTitle enforces what the schema's type system cannot: a title that is
// present but empty (or whitespace only) never reaches the store.
func (u *HabitUsecase) checkTitle(input HabitInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if err := u.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmptyTitle, err)
	}
	return nil
}

func (u *HabitUsecase) List(ctx context.Context, ownerID string) ([]*domain.Habit, error) {
	habits, err := u.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (u *HabitUsecase) Create(ctx context.Context, ownerID string, input HabitInput) (*domain.Habit, error) {
	if err := u.checkTitle(input); err != nil {
		return nil, err
	}

	habit, err := u.repo.Create(ctx, ownerID, input.Title)
	if err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return habit, nil
}

func (u *HabitUsecase) Update(ctx context.Context, habitID, ownerID string, input HabitInput) (*domain.Habit, error) {
	if err := u.checkTitle(input); err != nil {
		return nil, err
	}

	habit, err := u.repo.UpdateTitle(ctx, habitID, ownerID, input.Title)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return habit, nil
}

func (u *HabitUsecase) Delete(ctx context.Context, habitID, ownerID string) (*domain.Habit, error) {
	habit, err := u.repo.Delete(ctx, habitID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete habit: %w", err)
	}
	return habit, nil
}
