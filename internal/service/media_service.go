package service

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/spec-kit/inspection-service/internal/config"
	"github.com/spec-kit/inspection-service/internal/media"
	apperrors "github.com/spec-kit/inspection-service/pkg/util"
)

// MediaService brokers image uploads to the remote host.
type MediaService struct {
	host media.Host
	cfg  config.MediaConfig
}

// NewMediaService constructs the service.
func NewMediaService(host media.Host, cfg config.MediaConfig) *MediaService {
	return &MediaService{host: host, cfg: cfg}
}

// UploadImage validates the file format and forwards it to the host,
// returning the access URL.
func (s *MediaService) UploadImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", apperrors.NewValidationError("image file is required", nil)
	}
	if !s.allowedFormat(header.Filename) {
		return "", apperrors.NewValidationError("unsupported image format",
			map[string]any{"allowed": s.cfg.AllowedFormats})
	}

	file, err := header.Open()
	if err != nil {
		return "", apperrors.NewValidationError("unreadable image file", nil)
	}
	defer file.Close()

	url, err := s.host.UploadImage(ctx, file, header.Filename)
	if err != nil {
		return "", apperrors.NewUpstreamFailure(err)
	}
	return url, nil
}

// UploadBase64 forwards an inline-encoded image to the host and returns the
// secure access URL.
func (s *MediaService) UploadBase64(ctx context.Context, data string) (string, error) {
	if strings.TrimSpace(data) == "" {
		return "", apperrors.NewValidationError("image payload is required", nil)
	}
	url, err := s.host.UploadBase64(ctx, data)
	if err != nil {
		return "", apperrors.NewUpstreamFailure(err)
	}
	return url, nil
}

func (s *MediaService) allowedFormat(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range s.cfg.AllowedFormats {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
