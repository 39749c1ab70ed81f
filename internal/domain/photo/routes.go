package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RecipeRoutes returns the per-recipe photo router.
func (h *Handler) RecipeRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/{id}/photos", h.ListByRecipe)
	r.Post("/{id}/photos", h.Upload)
	r.Post("/{id}/photos/generate", h.Generate)

	return r
}

// Routes returns the photo router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Patch("/{id}/primary", h.SetPrimary)
	r.Delete("/{id}", h.Delete)

	return r
}
