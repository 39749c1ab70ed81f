package recipe

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines read-only recipe access for the photo pipeline.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Recipe, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a recipe repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	query := `SELECT id, name, instructions, created_by, created_at FROM recipes WHERE id = $1`
	var rec Recipe
	err := r.db.GetContext(ctx, &rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// Ingredients ordered by cost share so callers can take the top entries.
	ingredientsQuery := `
		SELECT i.name, ri.cost_share
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY ri.cost_share DESC
	`
	if err := r.db.SelectContext(ctx, &rec.Ingredients, ingredientsQuery, id); err != nil {
		return nil, err
	}

	return &rec, nil
}
