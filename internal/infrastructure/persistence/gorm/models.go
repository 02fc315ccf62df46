package gorm

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/internal/domain/video"
)

// BaseModel provides common fields for all aggregate tables. Ids are
// generated by the domain, never by the database.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// CategoryModel represents a category in the database
type CategoryModel struct {
	BaseModel
	Name        string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	IsActive    bool    `gorm:"not null"`
}

func (CategoryModel) TableName() string { return "categories" }

func (m *CategoryModel) ToDomain() *category.Category {
	return category.Restore(m.ID, m.Name, m.Description, m.IsActive, m.CreatedAt)
}

func (m *CategoryModel) FromDomain(c *category.Category) {
	m.ID = c.ID()
	m.CreatedAt = c.CreatedAt()
	m.Name = c.Name()
	m.Description = c.Description()
	m.IsActive = c.IsActive()
}

// CastMemberModel represents a cast member in the database
type CastMemberModel struct {
	BaseModel
	Name string `gorm:"size:255;not null"`
	Type int    `gorm:"not null;index"`
}

func (CastMemberModel) TableName() string { return "cast_members" }

func (m *CastMemberModel) ToDomain() *castmember.CastMember {
	return castmember.Restore(m.ID, m.Name, castmember.Type(m.Type), m.CreatedAt)
}

func (m *CastMemberModel) FromDomain(c *castmember.CastMember) {
	m.ID = c.ID()
	m.CreatedAt = c.CreatedAt()
	m.Name = c.Name()
	m.Type = int(c.Type())
}

// GenreModel represents a genre; its categories live in genre_categories.
type GenreModel struct {
	BaseModel
	Name       string               `gorm:"size:255;not null"`
	IsActive   bool                 `gorm:"not null"`
	Categories []GenreCategoryModel `gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE"`
}

func (GenreModel) TableName() string { return "genres" }

type GenreCategoryModel struct {
	GenreID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (GenreCategoryModel) TableName() string { return "genre_categories" }

func (m *GenreModel) ToDomain() *genre.Genre {
	ids := make([]uuid.UUID, len(m.Categories))
	for i, c := range m.Categories {
		ids[i] = c.CategoryID
	}
	return genre.Restore(m.ID, m.Name, ids, m.IsActive, m.CreatedAt)
}

func (m *GenreModel) FromDomain(g *genre.Genre) {
	m.ID = g.ID()
	m.CreatedAt = g.CreatedAt()
	m.Name = g.Name()
	m.IsActive = g.IsActive()
	m.Categories = nil
	for _, id := range g.CategoryIDs() {
		m.Categories = append(m.Categories, GenreCategoryModel{GenreID: g.ID(), CategoryID: id})
	}
}

// VideoModel represents a video. Relations and media live in child tables
// keyed by video_id.
type VideoModel struct {
	BaseModel
	Title        string `gorm:"size:255;not null"`
	Description  string `gorm:"type:text;not null"`
	YearLaunched int    `gorm:"not null"`
	Duration     int    `gorm:"not null"`
	Rating       string `gorm:"size:3;not null"`
	IsOpened     bool   `gorm:"not null"`
	IsPublished  bool   `gorm:"not null"`

	Categories       []VideoCategoryModel   `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	Genres           []VideoGenreModel      `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	CastMembers      []VideoCastMemberModel `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	ImageMedias      []ImageMediaModel      `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	AudioVideoMedias []AudioVideoMediaModel `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}

func (VideoModel) TableName() string { return "videos" }

type VideoCategoryModel struct {
	VideoID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (VideoCategoryModel) TableName() string { return "video_categories" }

type VideoGenreModel struct {
	VideoID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GenreID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (VideoGenreModel) TableName() string { return "video_genres" }

type VideoCastMemberModel struct {
	VideoID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CastMemberID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (VideoCastMemberModel) TableName() string { return "video_cast_members" }

// ImageMediaModel is one banner, thumbnail or thumbnail_half.
type ImageMediaModel struct {
	VideoID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoRelatedField string    `gorm:"size:32;primaryKey"`
	Name              string    `gorm:"size:255;not null"`
	Location          string    `gorm:"size:1024;not null"`
}

func (ImageMediaModel) TableName() string { return "image_medias" }

// AudioVideoMediaModel is one trailer or video and its encoding state.
type AudioVideoMediaModel struct {
	VideoID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoRelatedField string    `gorm:"size:32;primaryKey"`
	Name              string    `gorm:"size:255;not null"`
	RawLocation       string    `gorm:"size:1024;not null"`
	EncodedLocation   string    `gorm:"size:1024"`
	Status            string    `gorm:"size:16;not null;index"`
}

func (AudioVideoMediaModel) TableName() string { return "audio_video_medias" }

// ToDomain rebuilds the aggregate from the row and its loaded children.
func (m *VideoModel) ToDomain() *video.Video {
	s := video.Snapshot{
		Props: video.Props{
			Title:        m.Title,
			Description:  m.Description,
			YearLaunched: m.YearLaunched,
			Duration:     m.Duration,
			Rating:       video.Rating(m.Rating),
			IsOpened:     m.IsOpened,
		},
		ID:          m.ID,
		IsPublished: m.IsPublished,
		CreatedAt:   m.CreatedAt,
	}
	for _, c := range m.Categories {
		s.CategoryIDs = append(s.CategoryIDs, c.CategoryID)
	}
	for _, g := range m.Genres {
		s.GenreIDs = append(s.GenreIDs, g.GenreID)
	}
	for _, c := range m.CastMembers {
		s.CastMemberIDs = append(s.CastMemberIDs, c.CastMemberID)
	}
	for _, im := range m.ImageMedias {
		media := video.NewImageMedia(im.Name, im.Location)
		switch video.MediaField(im.VideoRelatedField) {
		case video.FieldBanner:
			s.Banner = &media
		case video.FieldThumbnail:
			s.Thumbnail = &media
		case video.FieldThumbnailHalf:
			s.ThumbnailHalf = &media
		}
	}
	for _, av := range m.AudioVideoMedias {
		media := video.RestoreAudioVideoMedia(av.Name, av.RawLocation, av.EncodedLocation, video.MediaStatus(av.Status))
		switch video.MediaField(av.VideoRelatedField) {
		case video.FieldTrailer:
			s.Trailer = &media
		case video.FieldVideo:
			s.Video = &media
		}
	}
	return video.Restore(s)
}

// FromDomain fills the row and every child row from the aggregate.
func (m *VideoModel) FromDomain(v *video.Video) {
	s := v.Snapshot()
	*m = VideoModel{
		BaseModel:    BaseModel{ID: s.ID, CreatedAt: s.CreatedAt},
		Title:        s.Title,
		Description:  s.Description,
		YearLaunched: s.YearLaunched,
		Duration:     s.Duration,
		Rating:       string(s.Rating),
		IsOpened:     s.IsOpened,
		IsPublished:  s.IsPublished,
	}
	for _, id := range s.CategoryIDs {
		m.Categories = append(m.Categories, VideoCategoryModel{VideoID: s.ID, CategoryID: id})
	}
	for _, id := range s.GenreIDs {
		m.Genres = append(m.Genres, VideoGenreModel{VideoID: s.ID, GenreID: id})
	}
	for _, id := range s.CastMemberIDs {
		m.CastMembers = append(m.CastMembers, VideoCastMemberModel{VideoID: s.ID, CastMemberID: id})
	}
	for _, f := range video.ImageFields {
		if im := v.Image(f); im != nil {
			m.ImageMedias = append(m.ImageMedias, ImageMediaModel{
				VideoID:           s.ID,
				VideoRelatedField: string(f),
				Name:              im.Name(),
				Location:          im.Location(),
			})
		}
	}
	for _, f := range video.AudioVideoFields {
		if av := v.AudioVideo(f); av != nil {
			m.AudioVideoMedias = append(m.AudioVideoMedias, AudioVideoMediaModel{
				VideoID:           s.ID,
				VideoRelatedField: string(f),
				Name:              av.Name(),
				RawLocation:       av.RawLocation(),
				EncodedLocation:   av.EncodedLocation(),
				Status:            string(av.Status()),
			})
		}
	}
}

// EventModel is one entry of the stored_events log.
type EventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AggregateType string    `gorm:"size:64;not null;index"`
	EventType     string    `gorm:"size:128;not null;index"`
	Version       int       `gorm:"not null;default:1"`
	Payload       string    `gorm:"type:text;not null"`
	OccurredAt    time.Time `gorm:"not null;index"`
}

func (EventModel) TableName() string { return "stored_events" }

// allModels lists every table in creation order.
func allModels() []any {
	return []any{
		&CategoryModel{},
		&CastMemberModel{},
		&GenreModel{},
		&GenreCategoryModel{},
		&VideoModel{},
		&VideoCategoryModel{},
		&VideoGenreModel{},
		&VideoCastMemberModel{},
		&ImageMediaModel{},
		&AudioVideoMediaModel{},
		&EventModel{},
	}
}
