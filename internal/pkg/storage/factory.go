package storage

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Credentials bundles the secrets required to construct backend clients.
// Settings snapshots stay credential-free so they can be logged.
type Credentials struct {
	S3                 S3Credentials
	SupabaseServiceKey string
}

// Factory constructs backend clients and memoizes exactly one per process.
// Reconfiguration replaces the singleton wholesale; it is never mutated in
// place.
type Factory struct {
	creds   Credentials
	backoff Backoff

	mu       sync.Mutex
	instance Client
}

// NewFactory creates a factory with the default retry policy.
func NewFactory(creds Credentials) *Factory {
	return &Factory{creds: creds, backoff: DefaultBackoff()}
}

// NewFactoryWithBackoff creates a factory with a custom retry policy.
func NewFactoryWithBackoff(creds Credentials, backoff Backoff) *Factory {
	return &Factory{creds: creds, backoff: backoff}
}

// Create constructs a new client for the settings. Pure construction, no
// memoization.
func (f *Factory) Create(settings Settings) (Client, error) {
	log.Info().Str("provider", string(settings.Provider)).Msg("Creating storage client")

	switch settings.Provider {
	case ProviderS3:
		return NewS3Client(settings, f.creds.S3, f.backoff)
	case ProviderSupabase:
		return NewSupabaseClient(settings, f.creds.SupabaseServiceKey, f.backoff)
	default:
		return nil, &UnsupportedProviderError{Provider: settings.Provider}
	}
}

// GetInstance returns the memoized client. When settings are supplied a new
// client is constructed and replaces any prior one; when omitted the
// existing singleton is returned, or ErrNotInitialized if none exists.
func (f *Factory) GetInstance(settings *Settings) (Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if settings == nil {
		if f.instance == nil {
			return nil, ErrNotInitialized
		}
		return f.instance, nil
	}

	client, err := f.Create(*settings)
	if err != nil {
		return nil, err
	}
	f.instance = client

	log.Info().
		Str("provider", string(settings.Provider)).
		Str("bucket", settings.BucketName).
		Msg("Storage client instance created")

	return client, nil
}

// ResetInstance clears the singleton. Used for reconfiguration and tests.
func (f *Factory) ResetInstance() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instance = nil
	log.Info().Msg("Storage client instance reset")
}
