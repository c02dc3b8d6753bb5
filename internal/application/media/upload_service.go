// Package media stores admin-uploaded product images in object storage.
package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes is the upload limit when none is configured
const DefaultMaxUploadBytes int64 = 5 << 20

// Upload errors
var (
	ErrEmptyFile       = shared.WrapDomainError("EMPTY_FILE", "No file was uploaded", shared.ErrInvalidInput)
	ErrFileTooLarge    = shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the upload limit")
	ErrUnsupportedType = shared.WrapDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP and GIF images are accepted", shared.ErrInvalidInput)
)

// ObjectStorage stores uploaded objects under string keys
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the public URL of key
	URL(key string) string
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadResult is the stored location of an upload
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// UploadService validates and stores product images
type UploadService struct {
	storage  ObjectStorage
	maxBytes int64
	now      func() time.Time
	logger   *zap.Logger
}

// NewUploadService creates a new UploadService. maxBytes <= 0 uses DefaultMaxUploadBytes.
func NewUploadService(storage ObjectStorage, maxBytes int64, logger *zap.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{
		storage:  storage,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger,
	}
}

// MaxBytes returns the upload limit
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// UploadImage sniffs the content type of data, ignoring what the client
// declared, and stores it under products/<yyyy>/<mm>/<uuid><ext>.
func (s *UploadService) UploadImage(ctx context.Context, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		s.logger.Warn("Rejected upload", zap.String("content_type", contentType))
		return nil, ErrUnsupportedType
	}

	now := s.now().UTC()
	key := path.Join("products", fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+ext)

	if err := s.storage.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("Image uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))

	return &UploadResult{
		URL:         s.storage.URL(key),
		Key:         key,
		ContentType: contentType,
		Size:        len(data),
	}, nil
}
