package aiimage

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// errorCategory buckets generation failures for placeholder selection.
type errorCategory string

const (
	categoryDefault      errorCategory = "default"
	categoryAPIError     errorCategory = "apiError"
	categoryNetworkError errorCategory = "networkError"
	categoryRateLimit    errorCategory = "rateLimit"
)

// Stock food photography served when generation is unavailable.
var placeholderImages = map[errorCategory]string{
	categoryDefault:      "https://images.unsplash.com/photo-1495195134817-aeb325a55b65",
	categoryAPIError:     "https://images.unsplash.com/photo-1546069901-ba9599a7e63c",
	categoryNetworkError: "https://images.unsplash.com/photo-1555939594-58d7cb561ad1",
	categoryRateLimit:    "https://images.unsplash.com/photo-1540189549336-e6e99c3679fe",
}

const placeholderParams = "w=1600&auto=format&fit=crop&q=80"

func classifyError(err error) errorCategory {
	if err == nil {
		return categoryDefault
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key") || strings.Contains(msg, "api error"):
		return categoryAPIError
	case strings.Contains(msg, "network"):
		return categoryNetworkError
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return categoryRateLimit
	default:
		return categoryDefault
	}
}

func placeholderURL(category errorCategory) string {
	log.Warn().Str("type", string(category)).Msg("Using placeholder image")
	return placeholderImages[category] + "?" + placeholderParams
}
