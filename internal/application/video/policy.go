package video

import (
	"fmt"
	"mime"
	"slices"
	"strings"

	"github.com/narwhalmedia/catalog/internal/domain/video"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

// UploadPolicy limits what may be uploaded into each media slot.
type UploadPolicy struct {
	ImageMaxBytes   int64
	TrailerMaxBytes int64
	VideoMaxBytes   int64
	ImageMimeTypes  []string
	VideoMimeTypes  []string
}

// Check validates the declared type and size of f for field.
func (p UploadPolicy) Check(field video.MediaField, f File) error {
	allowed, limit := p.ImageMimeTypes, p.ImageMaxBytes
	switch field {
	case video.FieldTrailer:
		allowed, limit = p.VideoMimeTypes, p.TrailerMaxBytes
	case video.FieldVideo:
		allowed, limit = p.VideoMimeTypes, p.VideoMaxBytes
	}

	var details []string
	if f.Name == "" {
		details = append(details, fmt.Sprintf("%s file name should not be empty", field))
	}
	mediaType := normalizeMimeType(f.MimeType)
	if len(allowed) > 0 && !slices.Contains(allowed, mediaType) {
		details = append(details, fmt.Sprintf("%s must be one of the following types: %s", field, strings.Join(allowed, ", ")))
	}
	if f.Size <= 0 {
		details = append(details, fmt.Sprintf("%s file should not be empty", field))
	} else if limit > 0 && f.Size > limit {
		details = append(details, fmt.Sprintf("%s must be smaller than or equal to %d bytes", field, limit))
	}
	if len(details) > 0 {
		return pkgerrors.Validation("upload validation failed", details...)
	}
	return nil
}

func normalizeMimeType(s string) string {
	mediaType, _, err := mime.ParseMediaType(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return mediaType
}
