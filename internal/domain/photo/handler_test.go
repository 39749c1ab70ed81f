package photo

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func passthroughAuth(next http.Handler) http.Handler {
	return next
}

func newTestRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Mount("/recipes", h.RecipeRoutes(passthroughAuth))
	r.Mount("/photos", h.Routes(passthroughAuth))
	return r
}

func multipartUpload(t *testing.T, fileName string, data []byte, isPrimary bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if isPrimary {
		if err := mw.WriteField("is_primary", "true"); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandlerUpload(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))
	recipeID := uuid.New()

	body, contentType := multipartUpload(t, "soup.jpg", jpegFile(1024).Data, true)
	req := httptest.NewRequest(http.MethodPost, "/recipes/"+recipeID.String()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool          `json:"success"`
		Data    PhotoResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Data.RecipeID != recipeID {
		t.Errorf("recipe_id = %s, want %s", resp.Data.RecipeID, recipeID)
	}
	if !resp.Data.IsPrimary {
		t.Error("is_primary = false, want true")
	}
	if resp.Data.URL == "" {
		t.Error("url is empty")
	}
}

func TestHandlerUploadRejectsNonImage(t *testing.T) {
	svc, _, store, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	body, contentType := multipartUpload(t, "doc.jpg", []byte("plain text, not an image at all"), false)
	req := httptest.NewRequest(http.MethodPost, "/recipes/"+uuid.NewString()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(store.uploads) != 0 {
		t.Error("rejected upload must not reach the storage backend")
	}
}

func TestHandlerUploadInvalidRecipeID(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	body, contentType := multipartUpload(t, "soup.jpg", jpegFile(64).Data, false)
	req := httptest.NewRequest(http.MethodPost, "/recipes/not-a-uuid/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerGenerateUnknownRecipe(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodPost, "/recipes/"+uuid.NewString()+"/photos/generate", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerListByRecipe(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))
	recipeID := uuid.New()

	photo := &Photo{ID: uuid.New(), RecipeID: recipeID, StorageKey: "recipes/x/a.jpg"}
	repo.photos[photo.ID] = photo

	req := httptest.NewRequest(http.MethodGet, "/recipes/"+recipeID.String()+"/photos", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data []PhotoResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("photos = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].URL != "https://cdn.example.com/recipes/x/a.jpg" {
		t.Errorf("url = %q", resp.Data[0].URL)
	}
}

func TestHandlerSetPrimary(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))
	recipeID := uuid.New()

	photo := &Photo{ID: uuid.New(), RecipeID: recipeID}
	repo.photos[photo.ID] = photo

	body := `{"recipe_id":"` + recipeID.String() + `"}`
	req := httptest.NewRequest(http.MethodPatch, "/photos/"+photo.ID.String()+"/primary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !photo.IsPrimary {
		t.Error("photo must be primary after the request")
	}
}

func TestHandlerSetPrimaryWrongRecipe(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	photo := &Photo{ID: uuid.New(), RecipeID: uuid.New()}
	repo.photos[photo.ID] = photo

	body := `{"recipe_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPatch, "/photos/"+photo.ID.String()+"/primary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	svc, repo, store, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	photo := &Photo{ID: uuid.New(), RecipeID: uuid.New(), StorageKey: "recipes/x/a.jpg"}
	repo.photos[photo.ID] = photo

	req := httptest.NewRequest(http.MethodDelete, "/photos/"+photo.ID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "recipes/x/a.jpg" {
		t.Errorf("deletes = %v", store.deletes)
	}
}

func TestHandlerDeleteNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodDelete, "/photos/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
