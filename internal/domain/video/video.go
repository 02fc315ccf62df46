package video

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/shared"
)

const (
	AggregateType   = "Video"
	TitleMaxLength  = 255
	MinYearLaunched = 1900
)

// Rating is the age classification of a video.
type Rating string

const (
	RatingL  Rating = "L"
	Rating10 Rating = "10"
	Rating12 Rating = "12"
	Rating14 Rating = "14"
	Rating16 Rating = "16"
	Rating18 Rating = "18"
)

var Ratings = []Rating{RatingL, Rating10, Rating12, Rating14, Rating16, Rating18}

func (r Rating) Valid() bool {
	for _, v := range Ratings {
		if r == v {
			return true
		}
	}
	return false
}

// Props are the editable attributes of a video.
type Props struct {
	Title         string
	Description   string
	YearLaunched  int
	Duration      int // minutes
	Rating        Rating
	IsOpened      bool
	CategoryIDs   []uuid.UUID
	GenreIDs      []uuid.UUID
	CastMemberIDs []uuid.UUID
}

// Snapshot is the full persisted state of a video.
type Snapshot struct {
	Props
	ID            uuid.UUID
	IsPublished   bool
	Banner        *ImageMedia
	Thumbnail     *ImageMedia
	ThumbnailHalf *ImageMedia
	Trailer       *AudioVideoMedia
	Video         *AudioVideoMedia
	CreatedAt     time.Time
}

// Video is the catalog entry of a movie or episode together with its media.
type Video struct {
	shared.BaseAggregate
	title         string
	description   string
	yearLaunched  int
	duration      int
	rating        Rating
	isOpened      bool
	isPublished   bool
	images        map[MediaField]ImageMedia
	audioVideos   map[MediaField]AudioVideoMedia
	categoryIDs   shared.UUIDSet
	genreIDs      shared.UUIDSet
	castMemberIDs shared.UUIDSet
}

// New creates a video, validates it and records Created.
func New(p Props) (*Video, error) {
	v := &Video{
		BaseAggregate: shared.NewBaseAggregate(),
		images:        make(map[MediaField]ImageMedia),
		audioVideos:   make(map[MediaField]AudioVideoMedia),
	}
	v.apply(p)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v.RecordEvent(newCreated(v))
	return v, nil
}

// Restore rebuilds a video from persisted state.
func Restore(s Snapshot) *Video {
	v := &Video{
		BaseAggregate: shared.RestoreBaseAggregate(s.ID, s.CreatedAt),
		isPublished:   s.IsPublished,
		images:        make(map[MediaField]ImageMedia),
		audioVideos:   make(map[MediaField]AudioVideoMedia),
	}
	v.apply(s.Props)
	for field, m := range map[MediaField]*ImageMedia{
		FieldBanner:        s.Banner,
		FieldThumbnail:     s.Thumbnail,
		FieldThumbnailHalf: s.ThumbnailHalf,
	} {
		if m != nil {
			v.images[field] = *m
		}
	}
	if s.Trailer != nil {
		v.audioVideos[FieldTrailer] = *s.Trailer
	}
	if s.Video != nil {
		v.audioVideos[FieldVideo] = *s.Video
	}
	return v
}

func (v *Video) apply(p Props) {
	v.title = p.Title
	v.description = p.Description
	v.yearLaunched = p.YearLaunched
	v.duration = p.Duration
	v.rating = p.Rating
	v.isOpened = p.IsOpened
	v.categoryIDs = shared.NewUUIDSet(p.CategoryIDs...)
	v.genreIDs = shared.NewUUIDSet(p.GenreIDs...)
	v.castMemberIDs = shared.NewUUIDSet(p.CastMemberIDs...)
}

func (v *Video) Title() string              { return v.title }
func (v *Video) Description() string        { return v.description }
func (v *Video) YearLaunched() int          { return v.yearLaunched }
func (v *Video) Duration() int              { return v.duration }
func (v *Video) Rating() Rating             { return v.rating }
func (v *Video) IsOpened() bool             { return v.isOpened }
func (v *Video) IsPublished() bool          { return v.isPublished }
func (v *Video) CategoryIDs() []uuid.UUID   { return v.categoryIDs.Slice() }
func (v *Video) GenreIDs() []uuid.UUID      { return v.genreIDs.Slice() }
func (v *Video) CastMemberIDs() []uuid.UUID { return v.castMemberIDs.Slice() }

// Props returns the editable attributes, for partial updates.
func (v *Video) Props() Props {
	return Props{
		Title:         v.title,
		Description:   v.description,
		YearLaunched:  v.yearLaunched,
		Duration:      v.duration,
		Rating:        v.rating,
		IsOpened:      v.isOpened,
		CategoryIDs:   v.CategoryIDs(),
		GenreIDs:      v.GenreIDs(),
		CastMemberIDs: v.CastMemberIDs(),
	}
}

// Snapshot exports the full state for persistence.
func (v *Video) Snapshot() Snapshot {
	s := Snapshot{
		Props:       v.Props(),
		ID:          v.ID(),
		IsPublished: v.isPublished,
		CreatedAt:   v.CreatedAt(),
	}
	s.Banner = v.Image(FieldBanner)
	s.Thumbnail = v.Image(FieldThumbnail)
	s.ThumbnailHalf = v.Image(FieldThumbnailHalf)
	s.Trailer = v.AudioVideo(FieldTrailer)
	s.Video = v.AudioVideo(FieldVideo)
	return s
}

// Update replaces the editable attributes and validates the result.
func (v *Video) Update(p Props) error {
	v.apply(p)
	return v.Validate()
}

func (v *Video) ChangeTitle(title string) error {
	v.title = title
	return v.Validate()
}

func (v *Video) ChangeDescription(description string) error {
	v.description = description
	return v.Validate()
}

func (v *Video) ChangeYearLaunched(year int) error {
	v.yearLaunched = year
	return v.Validate()
}

func (v *Video) ChangeDuration(minutes int) error {
	v.duration = minutes
	return v.Validate()
}

func (v *Video) ChangeRating(r Rating) error {
	v.rating = r
	return v.Validate()
}

func (v *Video) MarkAsOpened()    { v.isOpened = true }
func (v *Video) MarkAsNotOpened() { v.isOpened = false }

// SyncCategoryIDs, SyncGenreIDs and SyncCastMemberIDs replace a relation
// set. Each set must stay non-empty.
func (v *Video) SyncCategoryIDs(ids []uuid.UUID) error {
	v.categoryIDs = shared.NewUUIDSet(ids...)
	return v.Validate()
}

func (v *Video) SyncGenreIDs(ids []uuid.UUID) error {
	v.genreIDs = shared.NewUUIDSet(ids...)
	return v.Validate()
}

func (v *Video) SyncCastMemberIDs(ids []uuid.UUID) error {
	v.castMemberIDs = shared.NewUUIDSet(ids...)
	return v.Validate()
}

// Image returns the image in field, or nil when none was uploaded.
func (v *Video) Image(field MediaField) *ImageMedia {
	m, ok := v.images[field]
	if !ok {
		return nil
	}
	return &m
}

// AudioVideo returns the media in field, or nil when the slot has no media.
func (v *Video) AudioVideo(field MediaField) *AudioVideoMedia {
	m, ok := v.audioVideos[field]
	if !ok {
		return nil
	}
	return &m
}

// ReplaceImage stores a new banner, thumbnail or thumbnail_half.
func (v *Video) ReplaceImage(field MediaField, media ImageMedia) error {
	if !field.IsImage() {
		return fmt.Errorf("%w: %q is not an image field", ErrInvalidMediaField, field)
	}
	v.images[field] = media
	return nil
}

func (v *Video) ReplaceBanner(m ImageMedia) error        { return v.ReplaceImage(FieldBanner, m) }
func (v *Video) ReplaceThumbnail(m ImageMedia) error     { return v.ReplaceImage(FieldThumbnail, m) }
func (v *Video) ReplaceThumbnailHalf(m ImageMedia) error { return v.ReplaceImage(FieldThumbnailHalf, m) }

// ReplaceAudioVideo puts a new upload into a trailer or video slot. The
// slot becomes PENDING regardless of its previous state; an upload that is
// still waiting for the encoder is simply superseded.
func (v *Video) ReplaceAudioVideo(field MediaField, media AudioVideoMedia) error {
	if !field.IsAudioVideo() {
		return fmt.Errorf("%w: %q is not an audio/video field", ErrInvalidMediaField, field)
	}
	media.status = MediaStatusPending
	media.encodedLocation = ""
	v.audioVideos[field] = media
	v.isPublished = false
	v.RecordEvent(newAudioMediaReplaced(v.ID(), field, media))
	return nil
}

func (v *Video) ReplaceTrailer(m AudioVideoMedia) error { return v.ReplaceAudioVideo(FieldTrailer, m) }
func (v *Video) ReplaceVideo(m AudioVideoMedia) error   { return v.ReplaceAudioVideo(FieldVideo, m) }

// CompleteMedia records a successful encoding of field.
func (v *Video) CompleteMedia(field MediaField, encodedLocation string) error {
	return v.processMedia(field, func(m AudioVideoMedia) (AudioVideoMedia, error) {
		return m.Complete(encodedLocation)
	})
}

// FailMedia records a failed encoding of field.
func (v *Video) FailMedia(field MediaField) error {
	return v.processMedia(field, AudioVideoMedia.Fail)
}

func (v *Video) processMedia(field MediaField, transition func(AudioVideoMedia) (AudioVideoMedia, error)) error {
	if !field.IsAudioVideo() {
		return fmt.Errorf("%w: %q is not an audio/video field", ErrInvalidMediaField, field)
	}
	current, ok := v.audioVideos[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMediaNotUploaded, field)
	}
	next, err := transition(current)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if next == current {
		return nil
	}
	v.audioVideos[field] = next
	v.RecordEvent(newAudioMediaProcessed(v.ID(), field, next))

	wasPublished := v.isPublished
	if err := v.MarkAsPublished(); err == nil && !wasPublished {
		v.RecordEvent(&Published{BaseEvent: events.NewBaseEvent(v.ID(), AggregateType, EventTypeVideoPublished)})
	}
	return nil
}

// MarkAsPublished publishes the video once trailer and video are both
// encoded. It is a no-op for an already published video.
func (v *Video) MarkAsPublished() error {
	if v.isPublished {
		return nil
	}
	for _, f := range AudioVideoFields {
		m, ok := v.audioVideos[f]
		if !ok || m.status != MediaStatusCompleted {
			return ErrNotReadyToPublish
		}
	}
	v.isPublished = true
	return nil
}

// Validate checks the video invariants.
func (v *Video) Validate() error {
	n := shared.NewNotification()
	n.RequireName("title", v.title, TitleMaxLength)
	if v.description == "" {
		n.Add("description", "description should not be empty")
	}
	if v.yearLaunched < MinYearLaunched {
		n.Add("year_launched", fmt.Sprintf("year_launched must not be less than %d", MinYearLaunched))
	}
	if v.duration < 1 {
		n.Add("duration", "duration must not be less than 1")
	}
	if !v.rating.Valid() {
		n.Add("rating", "rating must be one of the following values: L, 10, 12, 14, 16, 18")
	}
	if v.categoryIDs.Len() == 0 {
		n.Add("categories_id", "categories_id should not be empty")
	}
	if v.genreIDs.Len() == 0 {
		n.Add("genres_id", "genres_id should not be empty")
	}
	if v.castMemberIDs.Len() == 0 {
		n.Add("cast_members_id", "cast_members_id should not be empty")
	}
	return n.Err("video")
}
