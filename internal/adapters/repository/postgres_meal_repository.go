package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

var _ domain.MealRepository = (*PostgresMealRepository)(nil)

type PostgresMealRepository struct {
	db *sqlx.DB
}

func NewPostgresMealRepository(db *sqlx.DB) *PostgresMealRepository {
	return &PostgresMealRepository{db: db}
}

const mealColumns = `id, name, kcal, protein, carbs, fat, default_portion, ingredients, instructions, created_at, updated_at`

func (r *PostgresMealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	var meal domain.Meal
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1`

	err := r.db.GetContext(ctx, &meal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMealNotFound
		}
		return nil, fmt.Errorf("meal query error: %w", err)
	}
	return &meal, nil
}

// GetByIDs fetches a batch of meals in one round trip. Ids without a matching
// row are skipped; callers treat the result as a lookup source, not a
// one-to-one mapping.
func (r *PostgresMealRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Meal, error) {
	if len(ids) == 0 {
		return []*domain.Meal{}, nil
	}

	meals := []*domain.Meal{}
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = ANY($1)`

	err := r.db.SelectContext(ctx, &meals, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("meal batch query error: %w", err)
	}
	return meals, nil
}
