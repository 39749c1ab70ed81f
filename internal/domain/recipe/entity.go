package recipe

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Recipe carries the fields the photo pipeline reads for prompt
// enhancement. Cost calculation lives elsewhere; this domain is read-only.
type Recipe struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Instructions pq.StringArray `db:"instructions" json:"instructions"`
	CreatedBy    uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`

	Ingredients []Ingredient `db:"-" json:"ingredients"`
}

// Ingredient is a recipe line item with its share of the total cost.
type Ingredient struct {
	Name      string  `db:"name" json:"name"`
	CostShare float64 `db:"cost_share" json:"cost_share"`
}
