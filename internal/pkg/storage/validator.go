package storage

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// MaxPhotoSize is the upload size ceiling (5 MB).
const MaxPhotoSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidatePhoto checks size and MIME type before any network call. The MIME
// type is detected from content (magic bytes), not trusted from the caller.
func ValidatePhoto(file File) error {
	if len(file.Data) == 0 {
		return ErrEmptyFile
	}
	if int64(len(file.Data)) > MaxPhotoSize {
		return ErrFileTooLarge
	}

	mimeType := http.DetectContentType(file.Data)
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if !allowedImageTypes[mimeType] {
		return ErrInvalidMimeType
	}
	return nil
}

// ExtensionForMime returns the file extension for an image MIME type.
func ExtensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
