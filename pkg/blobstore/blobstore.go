// Package blobstore abstracts external file storage for member photos.
// The core only needs validate, save, and delete; everything about where
// bytes actually live stays behind the Store interface.
package blobstore

import (
	"context"
	"io"
)

const maxPhotoSize = 1 << 20 // 1 MiB

// File is an upload to be validated and saved.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Store is the external photo storage collaborator.
type Store interface {
	// Validate returns a user-facing error message, or "" when the file
	// is acceptable.
	Validate(f *File) string
	// Save stores the file under folder and returns its URL.
	Save(ctx context.Context, f *File, folder string) (string, error)
	// Delete removes the object a previous Save returned url for.
	Delete(ctx context.Context, url, folder string) error
}

// ValidatePhoto applies the shared photo rules: JPEG or PNG, at most 1 MiB.
// Implementations use it so the policy stays identical across backends.
func ValidatePhoto(f *File) string {
	if f == nil {
		return "Photo is required."
	}
	if f.ContentType != "image/jpeg" && f.ContentType != "image/png" {
		return "Only JPG and PNG photos are allowed."
	}
	if f.Size > maxPhotoSize {
		return "Photo size cannot exceed 1MB."
	}
	return ""
}
