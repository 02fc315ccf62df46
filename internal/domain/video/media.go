package video

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MediaField names a media slot on a video.
type MediaField string

const (
	FieldBanner        MediaField = "banner"
	FieldThumbnail     MediaField = "thumbnail"
	FieldThumbnailHalf MediaField = "thumbnail_half"
	FieldTrailer       MediaField = "trailer"
	FieldVideo         MediaField = "video"
)

// ImageFields and AudioVideoFields list the slots of each media kind.
var (
	ImageFields      = []MediaField{FieldBanner, FieldThumbnail, FieldThumbnailHalf}
	AudioVideoFields = []MediaField{FieldTrailer, FieldVideo}
)

func (f MediaField) IsImage() bool {
	return f == FieldBanner || f == FieldThumbnail || f == FieldThumbnailHalf
}

func (f MediaField) IsAudioVideo() bool {
	return f == FieldTrailer || f == FieldVideo
}

// ParseMediaField accepts any of the five media slots.
func ParseMediaField(s string) (MediaField, error) {
	f := MediaField(s)
	if f.IsImage() || f.IsAudioVideo() {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMediaField, s)
}

// ParseAudioVideoField accepts only trailer and video.
func ParseAudioVideoField(s string) (MediaField, error) {
	f := MediaField(s)
	if f.IsAudioVideo() {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q is not an audio/video field", ErrInvalidMediaField, s)
}

// StorageKey derives the blob key of an uploaded file. The key depends only
// on the video, the slot and the original file name, so uploads to
// different slots never collide and re-uploading the same file overwrites.
func StorageKey(videoID uuid.UUID, field MediaField, originalName string) string {
	sum := sha256.Sum256([]byte(originalName))
	ext := strings.ToLower(path.Ext(originalName))
	return fmt.Sprintf("videos/%s/%s/%s%s", videoID, field, hex.EncodeToString(sum[:]), ext)
}

// ResourceID identifies one media slot of one video on the broker,
// formatted as "<video_id>.<field>".
func ResourceID(videoID uuid.UUID, field MediaField) string {
	return fmt.Sprintf("%s.%s", videoID, field)
}

// ParseResourceID splits a resource id back into video id and audio/video field.
func ParseResourceID(resourceID string) (uuid.UUID, MediaField, error) {
	idPart, fieldPart, ok := strings.Cut(resourceID, ".")
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: %q", ErrInvalidResourceID, resourceID)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %q: %v", ErrInvalidResourceID, resourceID, err)
	}
	field, err := ParseAudioVideoField(fieldPart)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, field, nil
}

// ImageMedia is a stored picture such as the banner.
type ImageMedia struct {
	name     string
	location string
}

func NewImageMedia(name, location string) ImageMedia {
	return ImageMedia{name: name, location: location}
}

func (m ImageMedia) Name() string     { return m.name }
func (m ImageMedia) Location() string { return m.location }

// MediaStatus is the encoding state of an audio/video file. A slot without
// any upload has no AudioVideoMedia at all.
type MediaStatus string

const (
	MediaStatusPending   MediaStatus = "pending"
	MediaStatusCompleted MediaStatus = "completed"
	MediaStatusFailed    MediaStatus = "failed"
)

// ParseMediaStatus accepts the statuses in any case, as sent by the encoder.
func ParseMediaStatus(s string) (MediaStatus, error) {
	switch st := MediaStatus(strings.ToLower(s)); st {
	case MediaStatusPending, MediaStatusCompleted, MediaStatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMediaStatus, s)
}

// AudioVideoMedia is an uploaded trailer or video and its encoding state.
type AudioVideoMedia struct {
	name            string
	rawLocation     string
	encodedLocation string
	status          MediaStatus
}

// NewAudioVideoMedia starts a freshly uploaded file in PENDING.
func NewAudioVideoMedia(name, rawLocation string) AudioVideoMedia {
	return AudioVideoMedia{
		name:        name,
		rawLocation: rawLocation,
		status:      MediaStatusPending,
	}
}

// RestoreAudioVideoMedia rebuilds persisted media.
func RestoreAudioVideoMedia(name, rawLocation, encodedLocation string, status MediaStatus) AudioVideoMedia {
	return AudioVideoMedia{
		name:            name,
		rawLocation:     rawLocation,
		encodedLocation: encodedLocation,
		status:          status,
	}
}

func (m AudioVideoMedia) Name() string            { return m.name }
func (m AudioVideoMedia) RawLocation() string     { return m.rawLocation }
func (m AudioVideoMedia) EncodedLocation() string { return m.encodedLocation }
func (m AudioVideoMedia) Status() MediaStatus     { return m.status }

// Complete moves PENDING media to COMPLETED with its encoded location.
func (m AudioVideoMedia) Complete(encodedLocation string) (AudioVideoMedia, error) {
	if encodedLocation == "" {
		return m, ErrEncodedLocationRequired
	}
	if m.status == MediaStatusCompleted && m.encodedLocation == encodedLocation {
		return m, nil
	}
	if m.status != MediaStatusPending {
		return m, fmt.Errorf("%w: media is %s", ErrMediaNotPending, m.status)
	}
	m.encodedLocation = encodedLocation
	m.status = MediaStatusCompleted
	return m, nil
}

// Fail moves PENDING media to FAILED. The encoded location stays empty.
func (m AudioVideoMedia) Fail() (AudioVideoMedia, error) {
	if m.status == MediaStatusFailed {
		return m, nil
	}
	if m.status != MediaStatusPending {
		return m, fmt.Errorf("%w: media is %s", ErrMediaNotPending, m.status)
	}
	m.encodedLocation = ""
	m.status = MediaStatusFailed
	return m, nil
}
