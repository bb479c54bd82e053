package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// maxUploadSize bounds how much of an upload is read.
const maxUploadSize = 20 << 20

type Service struct {
	store    Store
	maxWidth int
}

func NewService(store Store, maxWidth int) *Service {
	return &Service{store: store, maxWidth: maxWidth}
}

// Upload decodes an image, narrows it to the configured width, stores it as
// JPEG under folder and returns its reference.
func (s *Service) Upload(ctx context.Context, folder string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	if len(data) > maxUploadSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrUnsupportedImage, maxUploadSize)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}

	if s.maxWidth > 0 && img.Bounds().Dx() > s.maxWidth {
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encoding photo: %w", err)
	}

	name := fmt.Sprintf("%s/%s/%s.jpg", folder, time.Now().UTC().Format("2006/01"), uuid.New())

	return s.store.Put(ctx, name, "image/jpeg", &buf)
}

// Open returns the bytes of a stored photo.
func (s *Service) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return s.store.Open(ctx, ref)
}
