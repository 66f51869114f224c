// Package blob abstracts product image storage. Handlers receive an image
// payload (a data URI or remote URL) and persist it through an Uploader,
// keeping only the resulting serving URL on the product record.
package blob

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyImage is returned when an upload is attempted with no payload.
var ErrEmptyImage = errors.New("blob: empty image payload")

// Uploader stores an image and returns the URL it will be served from.
type Uploader interface {
	Upload(ctx context.Context, image string) (string, error)
}

// PassthroughUploader accepts images that are already URLs and returns
// them unchanged. It stands in for a CDN-backed uploader in environments
// without one configured.
type PassthroughUploader struct{}

func NewPassthroughUploader() *PassthroughUploader { return &PassthroughUploader{} }

func (PassthroughUploader) Upload(_ context.Context, image string) (string, error) {
	if strings.TrimSpace(image) == "" {
		return "", ErrEmptyImage
	}
	return image, nil
}
