package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSupabaseTestClient(t *testing.T, handler http.Handler) *SupabaseClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewSupabaseClient(Settings{
		Provider:   ProviderSupabase,
		BucketName: "recipe-photos",
		BaseURL:    server.URL,
	}, "service-key", Backoff{MaxAttempts: 1, BaseDelay: time.Millisecond, Sleep: func(time.Duration) {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestSupabaseDeleteEmptyKeySkipsBackend(t *testing.T) {
	requests := 0
	client := newSupabaseTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	if err := client.Delete(context.Background(), ""); err != nil {
		t.Fatalf("empty key delete must be a no-op, got %v", err)
	}
	if requests != 0 {
		t.Errorf("backend requests = %d, want 0", requests)
	}
}

func TestSupabaseDeleteMissingObjectIsSuccess(t *testing.T) {
	var gotMethod, gotPath string
	client := newSupabaseTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNotFound)
	}))

	if err := client.Delete(context.Background(), "recipes/x/a.jpg"); err != nil {
		t.Fatalf("missing object counts as already deleted, got %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/storage/v1/object/recipe-photos/recipes/x/a.jpg" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestSupabaseDeleteServerError(t *testing.T) {
	client := newSupabaseTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if err := client.Delete(context.Background(), "recipes/x/a.jpg"); err == nil {
		t.Error("expected error for backend failure")
	}
}
