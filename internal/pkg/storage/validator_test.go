package storage

import (
	"bytes"
	"errors"
	"testing"
)

// jpegBytes returns data whose magic bytes detect as image/jpeg.
func jpegBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}

func TestValidatePhotoAcceptsImages(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"jpeg", jpegBytes(512)},
		{"png", append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, bytes.Repeat([]byte{0}, 64)...)},
		{"gif", append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 64)...)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := ValidatePhoto(File{Name: "photo", Data: c.data}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePhotoRejectsEmpty(t *testing.T) {
	if err := ValidatePhoto(File{Name: "photo.jpg"}); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
}

func TestValidatePhotoRejectsOversize(t *testing.T) {
	err := ValidatePhoto(File{Name: "big.jpg", Data: jpegBytes(MaxPhotoSize + 1)})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}

	// Exactly at the limit passes.
	if err := ValidatePhoto(File{Name: "max.jpg", Data: jpegBytes(MaxPhotoSize)}); err != nil {
		t.Errorf("unexpected error at the size limit: %v", err)
	}
}

func TestValidatePhotoRejectsNonImages(t *testing.T) {
	// Content decides, not the declared type or the file name.
	file := File{
		Name:        "report.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("%PDF-1.4 not actually an image"),
	}
	if err := ValidatePhoto(file); !errors.Is(err, ErrInvalidMimeType) {
		t.Errorf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestExtensionForMime(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"image/gif":       ".gif",
		"application/pdf": "",
	}
	for mime, want := range cases {
		if got := ExtensionForMime(mime); got != want {
			t.Errorf("ExtensionForMime(%q) = %q, want %q", mime, got, want)
		}
	}
}
