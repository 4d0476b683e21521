package blobstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCSStore stores photos as objects in a Google Cloud Storage bucket and
// references them by their public URL.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a GCS client. If credsPath is empty, Application
// Default Credentials are used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Validate(f *File) string {
	return ValidatePhoto(f)
}

func (s *GCSStore) Save(ctx context.Context, f *File, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	objectPath := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))

	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = f.ContentType
	wc.ChunkSize = 0 // photos are small, skip chunking
	if _, err := io.Copy(wc, f.Reader); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return publicURL(s.bucket, objectPath), nil
}

func (s *GCSStore) Delete(ctx context.Context, url, folder string) error {
	prefix := publicURL(s.bucket, "")
	objectPath := strings.TrimPrefix(url, prefix)
	if objectPath == url || objectPath == "" {
		// not one of ours; nothing to delete
		return nil
	}
	return s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx)
}

func publicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

var _ Store = (*GCSStore)(nil)
