package storage

import (
	"fmt"
	"time"
)

// NewURLBuilder selects the URL builder matching the settings' provider.
func NewURLBuilder(settings Settings) (URLBuilder, error) {
	switch settings.Provider {
	case ProviderS3:
		return NewS3URLBuilder(settings.BucketName, settings.Region, settings.CDNURL), nil
	case ProviderSupabase:
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("%w: base URL is required for the supabase URL builder", ErrInvalidSettings)
		}
		return NewSupabaseURLBuilder(settings.BaseURL, settings.BucketName), nil
	default:
		return nil, &UnsupportedProviderError{Provider: settings.Provider}
	}
}

// S3URLBuilder builds S3 object URLs, optionally fronted by a CDN.
type S3URLBuilder struct {
	bucket string
	region string
	cdnURL string
}

func NewS3URLBuilder(bucket, region, cdnURL string) *S3URLBuilder {
	return &S3URLBuilder{
		bucket: bucket,
		region: region,
		cdnURL: trimBase(cdnURL),
	}
}

func (b *S3URLBuilder) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if b.cdnURL != "" {
		return fmt.Sprintf("%s/%s", b.cdnURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
}

func (b *S3URLBuilder) DownloadURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?response-content-disposition=attachment", b.bucket, b.region, key)
}

func (b *S3URLBuilder) UploadURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
}

func (b *S3URLBuilder) SignedURL(key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return "", ErrUseBackendClient
}

// SupabaseURLBuilder builds Supabase Storage object URLs.
type SupabaseURLBuilder struct {
	baseURL string
	bucket  string
}

func NewSupabaseURLBuilder(baseURL, bucket string) *SupabaseURLBuilder {
	return &SupabaseURLBuilder{
		baseURL: trimBase(baseURL),
		bucket:  bucket,
	}
}

func (b *SupabaseURLBuilder) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", b.baseURL, b.bucket, key)
}

func (b *SupabaseURLBuilder) DownloadURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/download/%s/%s", b.baseURL, b.bucket, key)
}

func (b *SupabaseURLBuilder) UploadURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", b.baseURL, b.bucket, key)
}

func (b *SupabaseURLBuilder) SignedURL(key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return "", ErrUseBackendClient
}
