package blobstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoto(t *testing.T) {
	tests := []struct {
		name string
		file *File
		want string
	}{
		{"nil file", nil, "Photo is required."},
		{"jpeg ok", &File{Name: "p.jpg", ContentType: "image/jpeg", Size: 1024}, ""},
		{"png ok", &File{Name: "p.png", ContentType: "image/png", Size: 1024}, ""},
		{"gif rejected", &File{Name: "p.gif", ContentType: "image/gif", Size: 1024}, "Only JPG and PNG photos are allowed."},
		{"pdf rejected", &File{Name: "p.pdf", ContentType: "application/pdf", Size: 1024}, "Only JPG and PNG photos are allowed."},
		{"too large", &File{Name: "p.jpg", ContentType: "image/jpeg", Size: maxPhotoSize + 1}, "Photo size cannot exceed 1MB."},
		{"exactly max", &File{Name: "p.jpg", ContentType: "image/jpeg", Size: maxPhotoSize}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhoto(tt.file))
		})
	}
}

func TestMemoryStore_SaveDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	url, err := store.Save(ctx, &File{Name: "p.jpg", ContentType: "image/jpeg", Size: 4, Reader: strings.NewReader("data")}, "photos")
	require.NoError(t, err)
	assert.True(t, store.Exists(url))
	assert.Equal(t, []string{url}, store.Saved)

	require.NoError(t, store.Delete(ctx, url, "photos"))
	assert.False(t, store.Exists(url))
	assert.Equal(t, []string{url}, store.Deleted)
}

func TestMemoryStore_UniqueURLs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u1, err := store.Save(ctx, &File{Name: "p.jpg", ContentType: "image/jpeg"}, "photos")
	require.NoError(t, err)
	u2, err := store.Save(ctx, &File{Name: "p.jpg", ContentType: "image/jpeg"}, "photos")
	require.NoError(t, err)
	assert.NotEqual(t, u1, u2)
}
