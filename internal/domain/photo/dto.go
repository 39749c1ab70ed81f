package photo

import (
	"time"

	"github.com/google/uuid"
)

// PhotoResponse represents a photo in API responses.
type PhotoResponse struct {
	ID            uuid.UUID `json:"id"`
	RecipeID      uuid.UUID `json:"recipe_id"`
	FileName      string    `json:"file_name"`
	URL           string    `json:"url"`
	IsPrimary     bool      `json:"is_primary"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	CreatedAt     string    `json:"created_at"`
}

// PhotoResponseFromEntity converts an entity to a response DTO.
func PhotoResponseFromEntity(p *Photo) *PhotoResponse {
	return &PhotoResponse{
		ID:            p.ID,
		RecipeID:      p.RecipeID,
		FileName:      p.FileName,
		URL:           p.URL,
		IsPrimary:     p.IsPrimary,
		IsAIGenerated: p.IsAIGenerated,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// SetPrimaryRequest for PATCH /photos/{id}/primary.
type SetPrimaryRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" validate:"required"`
}
