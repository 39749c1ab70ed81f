package photo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MarvinNotRobot/aichef/internal/domain/recipe"
	"github.com/MarvinNotRobot/aichef/internal/pkg/aiimage"
	"github.com/MarvinNotRobot/aichef/internal/pkg/storage"
)

// AIGenerator produces an image for a prompt and fetches it back for
// persistence.
type AIGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Download(ctx context.Context, imageURL string) (*aiimage.Image, error)
}

// RecipeSource provides the recipe fields used for prompt enhancement.
type RecipeSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
}

// Service orchestrates the photo lifecycle: upload, AI generation, deletion,
// and primary-photo reassignment. The only layer that performs compensating
// actions on partial failure.
type Service struct {
	repo    Repository
	store   storage.Client
	ai      AIGenerator
	recipes RecipeSource
}

// NewService creates the photo lifecycle service.
func NewService(repo Repository, store storage.Client, ai AIGenerator, recipes RecipeSource) *Service {
	return &Service{
		repo:    repo,
		store:   store,
		ai:      ai,
		recipes: recipes,
	}
}

// Upload validates and stores a user-provided photo, then registers it.
// A record is only created after the binary is durably stored. If the
// caller requests primary status the prior primary is cleared before the
// insert, so two primaries never coexist (there may transiently be none).
func (s *Service) Upload(ctx context.Context, userID, recipeID uuid.UUID, file storage.File, isPrimary bool) (*Photo, error) {
	if err := storage.ValidatePhoto(file); err != nil {
		return nil, err
	}

	log.Info().
		Str("file_name", file.Name).
		Int("size", len(file.Data)).
		Str("recipe_id", recipeID.String()).
		Bool("is_primary", isPrimary).
		Msg("Starting photo upload")

	key := fmt.Sprintf("recipes/%s/%d_%s", recipeID, time.Now().UnixMilli(), sanitizeFileName(file.Name))
	storedKey, err := s.store.Upload(ctx, file, key)
	if err != nil {
		return nil, err
	}

	if isPrimary {
		if err := s.repo.ClearPrimary(ctx, recipeID); err != nil {
			return nil, fmt.Errorf("failed to clear primary photo: %w", err)
		}
	}

	now := time.Now()
	photo := &Photo{
		ID:            uuid.New(),
		RecipeID:      recipeID,
		FileName:      file.Name,
		StorageKey:    storedKey,
		IsPrimary:     isPrimary,
		IsAIGenerated: false,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		// The stored binary is orphaned here. It is cheap to leave and gets
		// collected manually; contrast with GenerateAI where cleanup runs.
		log.Warn().
			Str("storage_key", storedKey).
			Str("recipe_id", recipeID.String()).
			Msg("Photo record insert failed, binary object orphaned")
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	photo.URL = s.store.PublicURL(storedKey)
	return photo, nil
}

// GenerateAI requests an AI-generated photo for the recipe, persists it to
// the storage backend, and registers the record. If the record insert fails
// the stored binary is deleted before the error propagates: an unregistered
// generated object has no other path to ever become visible or cleaned up.
func (s *Service) GenerateAI(ctx context.Context, userID, recipeID uuid.UUID) (*Photo, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if rec == nil {
		return nil, ErrRecipeNotFound
	}

	prompt := EnhancePrompt(rec.Name, rec.Ingredients, rec.Instructions)

	imageURL, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	img, err := s.ai.Download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	ext := storage.ExtensionForMime(img.ContentType)
	if ext == "" {
		ext = ".jpg"
	}
	fileName := slugify(rec.Name) + "-ai" + ext
	key := fmt.Sprintf("recipes/%s/%d_%s", recipeID, time.Now().UnixMilli(), fileName)
	storedKey, err := s.store.Upload(ctx, storage.File{
		Name:        fileName,
		ContentType: img.ContentType,
		Data:        img.Data,
	}, key)
	if err != nil {
		return nil, err
	}

	// Never register a record pointing at an unreachable object.
	publicURL := s.store.PublicURL(storedKey)
	if publicURL == "" {
		return nil, fmt.Errorf("failed to resolve public URL for key %q", storedKey)
	}

	now := time.Now()
	photo := &Photo{
		ID:            uuid.New(),
		RecipeID:      recipeID,
		FileName:      fileName,
		StorageKey:    storedKey,
		IsPrimary:     false,
		IsAIGenerated: true,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		if cleanupErr := s.store.Delete(ctx, storedKey); cleanupErr != nil {
			log.Error().
				Err(cleanupErr).
				Str("storage_key", storedKey).
				Msg("Failed to cleanup photo after database error")
		}
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	photo.URL = publicURL
	return photo, nil
}

// Delete removes a photo record and its binary object. Deleting the current
// primary promotes the oldest non-generated survivor; a recipe left with no
// primary is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}

	if err := s.store.Delete(ctx, photo.StorageKey); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if photo.IsPrimary {
		if err := s.reassignPrimary(ctx, photo.RecipeID); err != nil {
			return err
		}
	}
	return nil
}

// SetPrimary promotes a photo to primary for its recipe. The clear and set
// writes are sequential, not atomic; concurrent promotions resolve as
// last-writer-wins.
func (s *Service) SetPrimary(ctx context.Context, id, recipeID uuid.UUID) error {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}
	if photo.RecipeID != recipeID {
		return ErrPhotoNotInRecipe
	}

	if err := s.repo.ClearPrimary(ctx, recipeID); err != nil {
		return fmt.Errorf("failed to clear primary photo: %w", err)
	}
	if err := s.repo.SetPrimary(ctx, id); err != nil {
		return fmt.Errorf("failed to set primary photo: %w", err)
	}
	return nil
}

// ListByRecipe returns the recipe's photos with derived public URLs.
func (s *Service) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Photo, error) {
	photos, err := s.repo.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		p.URL = s.store.PublicURL(p.StorageKey)
	}
	return photos, nil
}

func (s *Service) reassignPrimary(ctx context.Context, recipeID uuid.UUID) error {
	next, err := s.repo.OldestNonGenerated(ctx, recipeID)
	if err != nil {
		return err
	}
	if next == nil {
		// No non-generated photo remains; the recipe has no primary.
		return nil
	}

	if err := s.repo.ClearPrimary(ctx, recipeID); err != nil {
		return fmt.Errorf("failed to clear primary photo: %w", err)
	}
	if err := s.repo.SetPrimary(ctx, next.ID); err != nil {
		return fmt.Errorf("failed to set primary photo: %w", err)
	}

	log.Info().
		Str("photo_id", next.ID.String()).
		Str("recipe_id", recipeID.String()).
		Msg("Reassigned primary photo")
	return nil
}

// sanitizeFileName keeps keys backend-safe: alphanumerics, dots and dashes
// survive, everything else becomes an underscore.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "photo"
	}
	return b.String()
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
