package video

import (
	"io"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/video"
)

type CreateCommand struct {
	Title         string
	Description   string
	YearLaunched  int
	Duration      int
	Rating        video.Rating
	IsOpened      bool
	CategoryIDs   []uuid.UUID
	GenreIDs      []uuid.UUID
	CastMemberIDs []uuid.UUID
}

// UpdateCommand patches a video. Nil fields are left untouched; a non-nil
// id slice replaces the relation set.
type UpdateCommand struct {
	ID            uuid.UUID
	Title         *string
	Description   *string
	YearLaunched  *int
	Duration      *int
	Rating        *video.Rating
	IsOpened      *bool
	CategoryIDs   []uuid.UUID
	GenreIDs      []uuid.UUID
	CastMemberIDs []uuid.UUID
}

type ListQuery = video.SearchParams

// File is an uploaded file as received by the transport layer.
type File struct {
	Name     string
	Size     int64
	MimeType string
	Content  io.Reader
}

// UploadMediaCommand stores File into one media slot of a video.
type UploadMediaCommand struct {
	VideoID uuid.UUID
	Field   string
	File    File
}

// ProcessAudioVideoMediaCommand applies an encoder result.
type ProcessAudioVideoMediaCommand struct {
	VideoID         uuid.UUID
	Field           string
	EncodedLocation string
	Status          string
}
