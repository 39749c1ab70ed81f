package storage

import (
	"errors"
	"testing"
	"time"
)

func TestNewURLBuilderSelectsProvider(t *testing.T) {
	b, err := NewURLBuilder(Settings{Provider: ProviderS3, BucketName: "photos", Region: "us-east-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*S3URLBuilder); !ok {
		t.Errorf("expected *S3URLBuilder, got %T", b)
	}

	b, err = NewURLBuilder(Settings{Provider: ProviderSupabase, BucketName: "photos", BaseURL: "https://proj.supabase.co"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*SupabaseURLBuilder); !ok {
		t.Errorf("expected *SupabaseURLBuilder, got %T", b)
	}

	if _, err := NewURLBuilder(Settings{Provider: "ftp", BucketName: "photos"}); err == nil {
		t.Error("expected error for unsupported provider")
	}

	if _, err := NewURLBuilder(Settings{Provider: ProviderSupabase, BucketName: "photos"}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for missing base URL, got %v", err)
	}
}

func TestS3URLBuilderPublicURL(t *testing.T) {
	b := NewS3URLBuilder("photos", "us-east-1", "")

	got := b.PublicURL("recipes/abc/1_soup.jpg")
	want := "https://photos.s3.us-east-1.amazonaws.com/recipes/abc/1_soup.jpg"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}

	if b.PublicURL("") != "" {
		t.Error("empty key must yield empty URL")
	}
}

func TestS3URLBuilderCDNOverride(t *testing.T) {
	// Trailing slash on the CDN URL must not produce a double slash.
	b := NewS3URLBuilder("photos", "us-east-1", "https://cdn.example.com/")

	got := b.PublicURL("recipes/abc/1_soup.jpg")
	want := "https://cdn.example.com/recipes/abc/1_soup.jpg"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}

	// Download URLs always go direct so the disposition header applies.
	got = b.DownloadURL("recipes/abc/1_soup.jpg")
	want = "https://photos.s3.us-east-1.amazonaws.com/recipes/abc/1_soup.jpg?response-content-disposition=attachment"
	if got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}
}

func TestSupabaseURLBuilderURLs(t *testing.T) {
	b := NewSupabaseURLBuilder("https://proj.supabase.co/", "photos")

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"public", b.PublicURL("recipes/a/x.jpg"), "https://proj.supabase.co/storage/v1/object/public/photos/recipes/a/x.jpg"},
		{"download", b.DownloadURL("recipes/a/x.jpg"), "https://proj.supabase.co/storage/v1/object/download/photos/recipes/a/x.jpg"},
		{"upload", b.UploadURL("recipes/a/x.jpg"), "https://proj.supabase.co/storage/v1/object/photos/recipes/a/x.jpg"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s URL = %q, want %q", c.name, c.got, c.want)
		}
	}

	if b.PublicURL("") != "" || b.DownloadURL("") != "" || b.UploadURL("") != "" {
		t.Error("empty key must yield empty URLs")
	}
}

func TestURLBuilderSignedURLDelegates(t *testing.T) {
	builders := []URLBuilder{
		NewS3URLBuilder("photos", "us-east-1", ""),
		NewSupabaseURLBuilder("https://proj.supabase.co", "photos"),
	}
	for _, b := range builders {
		if _, err := b.SignedURL("", time.Minute); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("%T: expected ErrEmptyKey, got %v", b, err)
		}
		if _, err := b.SignedURL("recipes/a/x.jpg", time.Minute); !errors.Is(err, ErrUseBackendClient) {
			t.Errorf("%T: expected ErrUseBackendClient, got %v", b, err)
		}
	}
}
