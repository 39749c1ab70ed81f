package storage

import (
	"errors"
	"testing"
)

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"valid s3", Settings{Provider: ProviderS3, BucketName: "photos", Region: "us-east-1"}, false},
		{"valid supabase", Settings{Provider: ProviderSupabase, BucketName: "photos", BaseURL: "https://proj.supabase.co"}, false},
		{"missing bucket", Settings{Provider: ProviderS3, Region: "us-east-1"}, true},
		{"s3 missing region", Settings{Provider: ProviderS3, BucketName: "photos"}, true},
		{"supabase missing base URL", Settings{Provider: ProviderSupabase, BucketName: "photos"}, true},
		{"unknown provider", Settings{Provider: "ftp", BucketName: "photos"}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.settings.Validate()
			if c.wantErr && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
			if !c.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateMergesPartial(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	got, err := Update(Settings{Provider: ProviderS3, Region: "eu-west-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Provider != ProviderS3 || got.Region != "eu-west-1" {
		t.Errorf("merged settings = %+v", got)
	}
	// Bucket from the defaults survives the partial update.
	if got.BucketName != "recipe-photos" {
		t.Errorf("bucket = %q, want default preserved", got.BucketName)
	}
	if Current() != got {
		t.Errorf("Current() = %+v, want installed snapshot %+v", Current(), got)
	}
}

func TestUpdateRejectsInvalidAndKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	before := Current()
	// S3 without a region never validates, so the update must not install.
	if _, err := Update(Settings{Provider: ProviderS3}); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if Current() != before {
		t.Errorf("Current() changed after failed update: %+v", Current())
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Cleanup(Reset)

	if _, err := Update(Settings{Provider: ProviderS3, BucketName: "other", Region: "us-east-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Reset()

	got := Current()
	if got.Provider != ProviderSupabase || got.BucketName != "recipe-photos" {
		t.Errorf("after reset = %+v, want defaults", got)
	}
}
