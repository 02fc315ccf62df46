package video

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

type RelationRef struct {
	ID   uuid.UUID
	Name string
}

type CastMemberRef struct {
	ID   uuid.UUID
	Name string
	Type castmember.Type
}

type ImageOutput struct {
	Name     string
	Location string
}

type AudioVideoOutput struct {
	Name            string
	RawLocation     string
	EncodedLocation string
	Status          video.MediaStatus
}

type Output struct {
	ID            uuid.UUID
	Title         string
	Description   string
	YearLaunched  int
	Duration      int
	Rating        video.Rating
	IsOpened      bool
	IsPublished   bool
	CategoryIDs   []uuid.UUID
	Categories    []RelationRef
	GenreIDs      []uuid.UUID
	Genres        []RelationRef
	CastMemberIDs []uuid.UUID
	CastMembers   []CastMemberRef
	Banner        *ImageOutput
	Thumbnail     *ImageOutput
	ThumbnailHalf *ImageOutput
	Trailer       *AudioVideoOutput
	Video         *AudioVideoOutput
	CreatedAt     time.Time
}

type ListOutput = pagination.SearchResult[Output]

// relations holds the related aggregates loaded for one or more videos.
type relations struct {
	categories  map[uuid.UUID]*category.Category
	genres      map[uuid.UUID]*genre.Genre
	castMembers map[uuid.UUID]*castmember.CastMember
}

func toOutput(v *video.Video, rel relations) Output {
	out := Output{
		ID:            v.ID(),
		Title:         v.Title(),
		Description:   v.Description(),
		YearLaunched:  v.YearLaunched(),
		Duration:      v.Duration(),
		Rating:        v.Rating(),
		IsOpened:      v.IsOpened(),
		IsPublished:   v.IsPublished(),
		CategoryIDs:   v.CategoryIDs(),
		Categories:    []RelationRef{},
		GenreIDs:      v.GenreIDs(),
		Genres:        []RelationRef{},
		CastMemberIDs: v.CastMemberIDs(),
		CastMembers:   []CastMemberRef{},
		Banner:        imageOutput(v.Image(video.FieldBanner)),
		Thumbnail:     imageOutput(v.Image(video.FieldThumbnail)),
		ThumbnailHalf: imageOutput(v.Image(video.FieldThumbnailHalf)),
		Trailer:       audioVideoOutput(v.AudioVideo(video.FieldTrailer)),
		Video:         audioVideoOutput(v.AudioVideo(video.FieldVideo)),
		CreatedAt:     v.CreatedAt(),
	}
	for _, id := range out.CategoryIDs {
		if c, ok := rel.categories[id]; ok {
			out.Categories = append(out.Categories, RelationRef{ID: id, Name: c.Name()})
		}
	}
	for _, id := range out.GenreIDs {
		if g, ok := rel.genres[id]; ok {
			out.Genres = append(out.Genres, RelationRef{ID: id, Name: g.Name()})
		}
	}
	for _, id := range out.CastMemberIDs {
		if m, ok := rel.castMembers[id]; ok {
			out.CastMembers = append(out.CastMembers, CastMemberRef{ID: id, Name: m.Name(), Type: m.Type()})
		}
	}
	return out
}

func imageOutput(m *video.ImageMedia) *ImageOutput {
	if m == nil {
		return nil
	}
	return &ImageOutput{Name: m.Name(), Location: m.Location()}
}

func audioVideoOutput(m *video.AudioVideoMedia) *AudioVideoOutput {
	if m == nil {
		return nil
	}
	return &AudioVideoOutput{
		Name:            m.Name(),
		RawLocation:     m.RawLocation(),
		EncodedLocation: m.EncodedLocation(),
		Status:          m.Status(),
	}
}
