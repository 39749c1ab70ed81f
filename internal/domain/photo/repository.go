package photo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines photo data access.
type Repository interface {
	Create(ctx context.Context, photo *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearPrimary unconditionally clears the primary flag for a recipe.
	ClearPrimary(ctx context.Context, recipeID uuid.UUID) error
	// SetPrimary flags one photo as primary. Callers must ClearPrimary
	// first; the two writes are not atomic and concurrent promotions
	// resolve as last-writer-wins.
	SetPrimary(ctx context.Context, id uuid.UUID) error

	// OldestNonGenerated returns the replacement-primary candidate: the
	// oldest photo for the recipe that is not AI-generated, or nil.
	OldestNonGenerated(ctx context.Context, recipeID uuid.UUID) (*Photo, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a photo repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, photo *Photo) error {
	query := `
		INSERT INTO recipe_photos (id, recipe_id, file_name, storage_key, is_primary, is_ai_generated, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		photo.ID,
		photo.RecipeID,
		photo.FileName,
		photo.StorageKey,
		photo.IsPrimary,
		photo.IsAIGenerated,
		photo.CreatedBy,
		photo.CreatedAt,
		photo.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	query := `SELECT * FROM recipe_photos WHERE id = $1`
	var photo Photo
	err := r.db.GetContext(ctx, &photo, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

func (r *repository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Photo, error) {
	query := `SELECT * FROM recipe_photos WHERE recipe_id = $1 ORDER BY is_primary DESC, created_at DESC`
	var photos []*Photo
	err := r.db.SelectContext(ctx, &photos, query, recipeID)
	return photos, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM recipe_photos WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) ClearPrimary(ctx context.Context, recipeID uuid.UUID) error {
	query := `UPDATE recipe_photos SET is_primary = false, updated_at = now() WHERE recipe_id = $1 AND is_primary = true`
	_, err := r.db.ExecContext(ctx, query, recipeID)
	return err
}

func (r *repository) SetPrimary(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE recipe_photos SET is_primary = true, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) OldestNonGenerated(ctx context.Context, recipeID uuid.UUID) (*Photo, error) {
	query := `
		SELECT * FROM recipe_photos
		WHERE recipe_id = $1 AND is_ai_generated = false
		ORDER BY created_at ASC
		LIMIT 1
	`
	var photo Photo
	err := r.db.GetContext(ctx, &photo, query, recipeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}
