package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ErlanBelekov/habit-tracker/internal/domain"
	"github.com/ErlanBelekov/habit-tracker/internal/usecase"
)

// ---- fakes ----

type fakeHabitRepo struct {
	list        func(ctx context.Context, ownerID string) ([]*domain.Habit, error)
	create      func(ctx context.Context, ownerID, title string) (*domain.Habit, error)
	updateTitle func(ctx context.Context, habitID, ownerID, title string) (*domain.Habit, error)
	delete      func(ctx context.Context, habitID, ownerID string) (*domain.Habit, error)
}

func (r *fakeHabitRepo) List(ctx context.Context, ownerID string) ([]*domain.Habit, error) {
	return r.list(ctx, ownerID)
}

func (r *fakeHabitRepo) Create(ctx context.Context, ownerID, title string) (*domain.Habit, error) {
	return r.create(ctx, ownerID, title)
}

func (r *fakeHabitRepo) UpdateTitle(ctx context.Context, habitID, ownerID, title string) (*domain.Habit, error) {
	return r.updateTitle(ctx, habitID, ownerID, title)
}

func (r *fakeHabitRepo) Delete(ctx context.Context, habitID, ownerID string) (*domain.Habit, error) {
	return r.delete(ctx, habitID, ownerID)
}

// ---- Create ----

func TestCreate_PassesOwnerAndTitleToRepo(t *testing.T) {
	var gotOwner, gotTitle string

	repo := &fakeHabitRepo{
		create: func(_ context.Context, ownerID, title string) (*domain.Habit, error) {
			gotOwner, gotTitle = ownerID, title
			return &domain.Habit{ID: "h-1", OwnerID: ownerID, Title: title}, nil
		},
	}

	habit, err := usecase.NewHabitUsecase(repo).Create(context.Background(), "alice", usecase.HabitInput{Title: "Read daily"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOwner != "alice" || gotTitle != "Read daily" {
		t.Errorf("repo called with (%q, %q), want (alice, Read daily)", gotOwner, gotTitle)
	}
	if habit.OwnerID != "alice" {
		t.Errorf("owner = %q, want alice", habit.OwnerID)
	}
}

func TestCreate_EmptyTitle_NeverReachesRepo(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		repoCalled := false
		repo := &fakeHabitRepo{
			create: func(_ context.Context, _, _ string) (*domain.Habit, error) {
				repoCalled = true
				return nil, nil
			},
		}

		_, err := usecase.NewHabitUsecase(repo).Create(context.Background(), "alice", usecase.HabitInput{Title: title})
		if !errors.Is(err, domain.ErrEmptyTitle) {
			t.Errorf("title %q: err = %v, want ErrEmptyTitle", title, err)
		}
		if repoCalled {
			t.Errorf("title %q: repo.Create was called", title)
		}
	}
}

// ---- Update ----

func TestUpdate_EmptyTitle_NeverReachesRepo(t *testing.T) {
	repoCalled := false
	repo := &fakeHabitRepo{
		updateTitle: func(_ context.Context, _, _, _ string) (*domain.Habit, error) {
			repoCalled = true
			return nil, nil
		},
	}

	_, err := usecase.NewHabitUsecase(repo).Update(context.Background(), "h-1", "alice", usecase.HabitInput{Title: " "})
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
	if repoCalled {
		t.Error("repo.UpdateTitle was called")
	}
}

func TestUpdate_NotFound_PropagatesSentinel(t *testing.T) {
	repo := &fakeHabitRepo{
		updateTitle: func(_ context.Context, _, _, _ string) (*domain.Habit, error) {
			return nil, domain.ErrHabitNotFound
		},
	}

	_, err := usecase.NewHabitUsecase(repo).Update(context.Background(), "missing", "alice", usecase.HabitInput{Title: "x"})
	if !errors.Is(err, domain.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
}

// ---- Delete ----

func TestDelete_NotFound_PropagatesSentinel(t *testing.T) {
	repo := &fakeHabitRepo{
		delete: func(_ context.Context, _, _ string) (*domain.Habit, error) {
			return nil, domain.ErrHabitNotFound
		},
	}

	_, err := usecase.NewHabitUsecase(repo).Delete(context.Background(), "missing", "alice")
	if !errors.Is(err, domain.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
}

func TestDelete_ReturnsPreDeleteRecord(t *testing.T) {
	want := &domain.Habit{ID: "h-1", OwnerID: "alice", Title: "Read daily"}
	repo := &fakeHabitRepo{
		delete: func(_ context.Context, habitID, ownerID string) (*domain.Habit, error) {
			if habitID != "h-1" || ownerID != "alice" {
				t.Errorf("repo called with (%q, %q)", habitID, ownerID)
			}
			return want, nil
		},
	}

	got, err := usecase.NewHabitUsecase(repo).Delete(context.Background(), "h-1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want pre-delete record", got)
	}
}
