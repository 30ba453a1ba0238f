// Package upload validates story images and stores them in object storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const keyPrefix = "stories/"

// ObjectStore is where uploaded files end up
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Result is returned to the client after a successful upload
type Result struct {
	FileURL string `json:"file_url"`
}

type Service struct {
	objects   ObjectStore
	publicURL string
	maxSize   int64
	log       zerolog.Logger
}

func NewService(objects ObjectStore, publicURL string, maxSize int64) *Service {
	return &Service{
		objects:   objects,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   maxSize,
		log:       logger.Component("upload"),
	}
}

// Upload reads at most maxSize bytes from r, checks that the content is an
// image and stores it under a fresh key
func (s *Service) Upload(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, models.NewValidationError("file", "required")
	}
	if int64(len(data)) > s.maxSize {
		return nil, models.NewValidationError("file", "max")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		s.log.Warn().Str("mime", mt.String()).Msg("Rejected non-image upload")
		return nil, models.NewValidationError("file", "image")
	}

	key := keyPrefix + uuid.NewString() + mt.Extension()
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	if err := s.objects.Put(ctx, key, contentType, data); err != nil {
		return nil, err
	}

	s.log.Info().Str("key", key).Int("size", len(data)).Str("mime", contentType).Msg("File uploaded")
	return &Result{FileURL: s.publicURL + "/" + key}, nil
}
