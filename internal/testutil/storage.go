package testutil

import (
	"context"
	"net/url"
	"sync"
	"time"

	"amfit/coach-app/internal/storage"
)

// MockPhotoStorage returns predictable presigned URLs under https://storage.test.
type MockPhotoStorage struct {
	mu      sync.Mutex
	Deleted []string

	PresignError error
	DeleteError  error
}

var _ storage.PhotoStorage = (*MockPhotoStorage)(nil)

func NewMockPhotoStorage() *MockPhotoStorage {
	return &MockPhotoStorage{}
}

func (s *MockPhotoStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	if s.PresignError != nil {
		return "", s.PresignError
	}
	q := url.Values{"method": {"PUT"}, "content-type": {contentType}, "expires": {expires.String()}}
	return "https://storage.test/" + objectKey + "?" + q.Encode(), nil
}

func (s *MockPhotoStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if s.PresignError != nil {
		return "", s.PresignError
	}
	q := url.Values{"method": {"GET"}, "expires": {expires.String()}}
	return "https://storage.test/" + objectKey + "?" + q.Encode(), nil
}

func (s *MockPhotoStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if s.DeleteError != nil {
		return s.DeleteError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, objectKey)
	return nil
}
