package blobstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps saved blobs in a map. It records every save and delete
// so tests can assert the exact sequence of blob operations.
type MemoryStore struct {
	mu      sync.Mutex
	next    int
	objects map[string][]byte

	Saved   []string
	Deleted []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Validate(f *File) string {
	return ValidatePhoto(f)
}

func (s *MemoryStore) Save(_ context.Context, f *File, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	url := fmt.Sprintf("mem://%s/%d-%s", folder, s.next, f.Name)
	var data []byte
	if f.Reader != nil {
		var err error
		if data, err = io.ReadAll(f.Reader); err != nil {
			return "", err
		}
	}
	s.objects[url] = data
	s.Saved = append(s.Saved, url)
	return url, nil
}

func (s *MemoryStore) Delete(_ context.Context, url, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, url)
	s.Deleted = append(s.Deleted, url)
	return nil
}

// Exists reports whether a blob is currently stored under url.
func (s *MemoryStore) Exists(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}

var _ Store = (*MemoryStore)(nil)
