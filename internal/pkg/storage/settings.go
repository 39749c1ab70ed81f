package storage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Settings is an immutable snapshot of backend configuration. A new
// snapshot never mutates an already-constructed client; it replaces the
// client via the Factory.
type Settings struct {
	Provider   Provider
	BucketName string
	Region     string // required for S3
	BaseURL    string // required for Supabase
	CDNURL     string // optional public URL override
}

// Validate fails fast when the chosen provider is missing mandatory fields.
func (s Settings) Validate() error {
	if s.BucketName == "" {
		return fmt.Errorf("%w: bucket name is required", ErrInvalidSettings)
	}
	switch s.Provider {
	case ProviderS3:
		if s.Region == "" {
			return fmt.Errorf("%w: region is required for the s3 provider", ErrInvalidSettings)
		}
	case ProviderSupabase:
		if s.BaseURL == "" {
			return fmt.Errorf("%w: base URL is required for the supabase provider", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSettings, &UnsupportedProviderError{Provider: s.Provider})
	}
	return nil
}

// merge overlays non-zero fields of partial onto s.
func (s Settings) merge(partial Settings) Settings {
	if partial.Provider != "" {
		s.Provider = partial.Provider
	}
	if partial.BucketName != "" {
		s.BucketName = partial.BucketName
	}
	if partial.Region != "" {
		s.Region = partial.Region
	}
	if partial.BaseURL != "" {
		s.BaseURL = partial.BaseURL
	}
	if partial.CDNURL != "" {
		s.CDNURL = partial.CDNURL
	}
	return s
}

var defaultSettings = Settings{
	Provider:   ProviderSupabase,
	BucketName: "recipe-photos",
}

var (
	settingsMu      sync.RWMutex
	currentSettings = defaultSettings
)

// Current returns the active settings snapshot.
func Current() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return currentSettings
}

// Update merges the partial settings into the current snapshot,
// re-validates, and installs the result. The current snapshot is kept
// unchanged when validation fails.
func Update(partial Settings) (Settings, error) {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	next := currentSettings.merge(partial)
	if err := next.Validate(); err != nil {
		return currentSettings, err
	}
	currentSettings = next

	log.Info().
		Str("provider", string(next.Provider)).
		Str("bucket", next.BucketName).
		Bool("has_cdn_url", next.CDNURL != "").
		Msg("Storage settings updated")

	return next, nil
}

// Reset restores the default settings.
func Reset() {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	currentSettings = defaultSettings
	log.Info().Msg("Storage settings reset to defaults")
}

// trimBase normalizes away trailing slashes so URL concatenation never
// double-slashes.
func trimBase(url string) string {
	return strings.TrimRight(url, "/")
}
