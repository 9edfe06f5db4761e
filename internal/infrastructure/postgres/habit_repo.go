package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ErlanBelekov/habit-tracker/internal/domain"
)

type HabitRepository struct {
	pool *pgxpool.Pool
}

func NewHabitRepository(pool *pgxpool.Pool) *HabitRepository {
	return &HabitRepository{pool: pool}
}

const habitColumns = `id, owner_id, title, created_at, updated_at`

func (r *HabitRepository) List(ctx context.Context, ownerID string) ([]*domain.Habit, error) {
	query := `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (r *HabitRepository) Create(ctx context.Context, ownerID, title string) (*domain.Habit, error) {
	query := `
		INSERT INTO habits (owner_id, title)
		VALUES ($1, $2)
		RETURNING ` + habitColumns

	row := r.pool.QueryRow(ctx, query, ownerID, title)
	return scanHabit(row)
}

func (r *HabitRepository) UpdateTitle(ctx context.Context, habitID, ownerID, title string) (*domain.Habit, error) {
	// Ownership is part of the WHERE clause: an id owned by someone else
	// produces the same no-row result as a missing id.
	query := `
		UPDATE habits
		SET    title      = $3,
		       updated_at = NOW()
		WHERE  id = $1 AND owner_id = $2
		RETURNING ` + habitColumns

	row := r.pool.QueryRow(ctx, query, habitID, ownerID, title)
	return scanHabit(row)
}

func (r *HabitRepository) Delete(ctx context.Context, habitID, ownerID string) (*domain.Habit, error) {
	query := `
		DELETE FROM habits
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + habitColumns

	row := r.pool.QueryRow(ctx, query, habitID, ownerID)
	return scanHabit(row)
}

func scanHabit(row pgx.Row) (*domain.Habit, error) {
	var h domain.Habit
	err := row.Scan(&h.ID, &h.OwnerID, &h.Title, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}
	return &h, nil
}
