package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrUnsupportedContentType is returned for uploads that are not images.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// photoExtensions lists the accepted image types and their key suffix.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/webp": ".webp",
}

// PhotoStorage defines the object storage operations behind assessment photos.
// The API never proxies image bytes: clients upload and download through
// short-lived presigned URLs.
type PhotoStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// PhotoKey builds the object key for a new photo of an assessment:
// assessments/<traineeID>/<assessmentID>/<uuid><ext>.
func PhotoKey(traineeID, assessmentID, contentType string) (string, error) {
	ext, ok := photoExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return path.Join("assessments", traineeID, assessmentID, uuid.NewString()+ext), nil
}
