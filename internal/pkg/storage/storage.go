package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider identifies a concrete object-storage backend.
type Provider string

const (
	ProviderS3       Provider = "s3"
	ProviderSupabase Provider = "supabase"
)

// Objects are treated as immutable once uploaded.
const CacheControlImmutable = "public, max-age=31536000, immutable"

// File is an in-memory binary object to be stored.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Client is the uniform contract every storage backend satisfies.
type Client interface {
	// Upload stores the file under key and returns the key actually written.
	// Retried with backoff on failure.
	Upload(ctx context.Context, file File, key string) (string, error)

	// Delete removes an object. An empty key is a no-op, never an error.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a time-limited URL for a non-empty key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PublicURL returns the public URL for a key. Empty key yields "".
	PublicURL(key string) string
}

// URLBuilder translates storage keys into URL forms. Pure string
// templating, no I/O and no credentials.
type URLBuilder interface {
	PublicURL(key string) string
	DownloadURL(key string) string
	UploadURL(key string) string
	SignedURL(key string, ttl time.Duration) (string, error)
}

var (
	// ErrEmptyKey is returned when an operation requires a non-empty key.
	ErrEmptyKey = errors.New("storage key is required")

	// ErrUseBackendClient is returned by URL builders for signing requests:
	// producing a signed URL needs the backend client's credentials.
	ErrUseBackendClient = errors.New("signed URLs require the backend client")

	// ErrNotInitialized is returned when the factory singleton is fetched
	// before any configuration was supplied.
	ErrNotInitialized = errors.New("storage client not initialized")

	// ErrInvalidSettings wraps all settings validation failures.
	ErrInvalidSettings = errors.New("invalid storage settings")
)

// UnsupportedProviderError names the offending provider value.
type UnsupportedProviderError struct {
	Provider Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported storage provider: %q", string(e.Provider))
}

type credentialKey struct{}

// WithCredential attaches the caller's bearer credential to the context.
// Backends that authorize per-request forward it verbatim; this package
// never authenticates on its own.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFromContext returns the ambient bearer credential, if any.
func CredentialFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(credentialKey{}).(string); ok {
		return token
	}
	return ""
}
