package photo

import (
	"time"

	"github.com/google/uuid"
)

// Photo represents a stored recipe photograph (metadata only, binary object
// lives in the storage backend).
//
// Invariant: at most one photo per recipe has IsPrimary = true. Enforced at
// the application level by clear-then-set; see Service.
type Photo struct {
	ID            uuid.UUID `db:"id" json:"id"`
	RecipeID      uuid.UUID `db:"recipe_id" json:"recipe_id"`
	FileName      string    `db:"file_name" json:"file_name"`
	StorageKey    string    `db:"storage_key" json:"storage_key"` // immutable after creation
	IsPrimary     bool      `db:"is_primary" json:"is_primary"`
	IsAIGenerated bool      `db:"is_ai_generated" json:"is_ai_generated"`
	CreatedBy     uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// URL is derived from StorageKey via the active backend, never stored.
	URL string `db:"-" json:"url"`
}
