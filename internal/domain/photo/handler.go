package photo

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MarvinNotRobot/aichef/internal/middleware"
	"github.com/MarvinNotRobot/aichef/internal/pkg/response"
	"github.com/MarvinNotRobot/aichef/internal/pkg/storage"
	"github.com/MarvinNotRobot/aichef/internal/pkg/validator"
)

// Multipart form ceiling: photo limit plus headroom for form fields.
const maxUploadFormSize = storage.MaxPhotoSize + 1024*1024

// Handler handles photo HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a photo handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListByRecipe handles GET /recipes/{id}/photos
func (h *Handler) ListByRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid recipe ID")
		return
	}

	photos, err := h.service.ListByRecipe(r.Context(), recipeID)
	if err != nil {
		response.InternalError(w)
		return
	}

	resp := make([]*PhotoResponse, 0, len(photos))
	for _, p := range photos {
		resp = append(resp, PhotoResponseFromEntity(p))
	}
	response.OK(w, resp)
}

// Upload handles POST /recipes/{id}/photos (multipart form with "file" and
// an optional "is_primary" flag).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid recipe ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file")
		return
	}
	defer file.Close()

	// Read at most one byte past the ceiling so oversized uploads fail
	// validation instead of truncating silently.
	data, err := io.ReadAll(io.LimitReader(file, storage.MaxPhotoSize+1))
	if err != nil {
		response.BadRequest(w, "Failed to read file")
		return
	}

	isPrimary := r.FormValue("is_primary") == "true"
	userID := middleware.GetUserID(r.Context())

	photo, err := h.service.Upload(r.Context(), userID, recipeID, storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, isPrimary)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.BadRequest(w, "File exceeds the 5 MB limit")
		case errors.Is(err, storage.ErrInvalidMimeType):
			response.BadRequest(w, "Only image files are allowed")
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(w, "File is empty")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, PhotoResponseFromEntity(photo))
}

// Generate handles POST /recipes/{id}/photos/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid recipe ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	photo, err := h.service.GenerateAI(r.Context(), userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecipeNotFound):
			response.NotFound(w, "Recipe not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, PhotoResponseFromEntity(photo))
}

// SetPrimary handles PATCH /photos/{id}/primary
func (h *Handler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	var req SetPrimaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.SetPrimary(r.Context(), photoID, req.RecipeID); err != nil {
		switch {
		case errors.Is(err, ErrPhotoNotFound):
			response.NotFound(w, "Photo not found")
		case errors.Is(err, ErrPhotoNotInRecipe):
			response.BadRequest(w, "Photo does not belong to this recipe")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /photos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	if err := h.service.Delete(r.Context(), photoID); err != nil {
		switch {
		case errors.Is(err, ErrPhotoNotFound):
			response.NotFound(w, "Photo not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
