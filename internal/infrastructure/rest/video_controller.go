package rest

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appvideo "github.com/narwhalmedia/catalog/internal/application/video"
	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

const (
	// maxMultipartMemory is kept in memory before parts spill to temp files.
	maxMultipartMemory = 32 << 20
	// multipartOverhead allows for part headers and boundaries around the file.
	multipartOverhead = 64 << 10
)

type VideoUsecase interface {
	Create(ctx context.Context, cmd appvideo.CreateCommand) (appvideo.Output, error)
	Update(ctx context.Context, cmd appvideo.UpdateCommand) (appvideo.Output, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (appvideo.Output, error)
	List(ctx context.Context, q appvideo.ListQuery) (appvideo.ListOutput, error)
	UploadMedia(ctx context.Context, cmd appvideo.UploadMediaCommand) (appvideo.Output, error)
}

// VideoController serves /videos. MaxUploadBytes caps the upload body when
// positive; UploadTimeout replaces the server read and write deadlines for
// uploads.
type VideoController struct {
	VideoUsecase   VideoUsecase
	MaxUploadBytes int64
	UploadTimeout  time.Duration
}

type createVideoRequest struct {
	Title         string      `json:"title" binding:"required,max=255"`
	Description   string      `json:"description" binding:"required"`
	YearLaunched  int         `json:"year_launched" binding:"required,min=1900"`
	Duration      int         `json:"duration" binding:"required,min=1"`
	Rating        string      `json:"rating" binding:"required,oneof=L 10 12 14 16 18"`
	IsOpened      bool        `json:"is_opened"`
	CategoriesID  []uuid.UUID `json:"categories_id" binding:"required,min=1"`
	GenresID      []uuid.UUID `json:"genres_id" binding:"required,min=1"`
	CastMembersID []uuid.UUID `json:"cast_members_id" binding:"required,min=1"`
}

type updateVideoRequest struct {
	Title         *string     `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string     `json:"description" binding:"omitempty,min=1"`
	YearLaunched  *int        `json:"year_launched" binding:"omitempty,min=1900"`
	Duration      *int        `json:"duration" binding:"omitempty,min=1"`
	Rating        *string     `json:"rating" binding:"omitempty,oneof=L 10 12 14 16 18"`
	IsOpened      *bool       `json:"is_opened"`
	CategoriesID  []uuid.UUID `json:"categories_id" binding:"omitempty,min=1"`
	GenresID      []uuid.UUID `json:"genres_id" binding:"omitempty,min=1"`
	CastMembersID []uuid.UUID `json:"cast_members_id" binding:"omitempty,min=1"`
}

type RelationPresenter struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type VideoCastMemberPresenter struct {
	ID   uuid.UUID       `json:"id"`
	Name string          `json:"name"`
	Type castmember.Type `json:"type"`
}

type ImagePresenter struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type AudioVideoPresenter struct {
	Name            string            `json:"name"`
	RawLocation     string            `json:"raw_location"`
	EncodedLocation string            `json:"encoded_location"`
	Status          video.MediaStatus `json:"status"`
}

type VideoPresenter struct {
	ID            uuid.UUID                  `json:"id"`
	Title         string                     `json:"title"`
	Description   string                     `json:"description"`
	YearLaunched  int                        `json:"year_launched"`
	Duration      int                        `json:"duration"`
	Rating        video.Rating               `json:"rating"`
	IsOpened      bool                       `json:"is_opened"`
	IsPublished   bool                       `json:"is_published"`
	CategoriesID  []uuid.UUID                `json:"categories_id"`
	Categories    []RelationPresenter        `json:"categories"`
	GenresID      []uuid.UUID                `json:"genres_id"`
	Genres        []RelationPresenter        `json:"genres"`
	CastMembersID []uuid.UUID                `json:"cast_members_id"`
	CastMembers   []VideoCastMemberPresenter `json:"cast_members"`
	Banner        *ImagePresenter            `json:"banner"`
	Thumbnail     *ImagePresenter            `json:"thumbnail"`
	ThumbnailHalf *ImagePresenter            `json:"thumbnail_half"`
	Trailer       *AudioVideoPresenter       `json:"trailer"`
	Video         *AudioVideoPresenter       `json:"video"`
	CreatedAt     time.Time                  `json:"created_at"`
}

func presentVideo(o appvideo.Output) VideoPresenter {
	p := VideoPresenter{
		ID:            o.ID,
		Title:         o.Title,
		Description:   o.Description,
		YearLaunched:  o.YearLaunched,
		Duration:      o.Duration,
		Rating:        o.Rating,
		IsOpened:      o.IsOpened,
		IsPublished:   o.IsPublished,
		CategoriesID:  o.CategoryIDs,
		Categories:    make([]RelationPresenter, 0, len(o.Categories)),
		GenresID:      o.GenreIDs,
		Genres:        make([]RelationPresenter, 0, len(o.Genres)),
		CastMembersID: o.CastMemberIDs,
		CastMembers:   make([]VideoCastMemberPresenter, 0, len(o.CastMembers)),
		Banner:        presentImage(o.Banner),
		Thumbnail:     presentImage(o.Thumbnail),
		ThumbnailHalf: presentImage(o.ThumbnailHalf),
		Trailer:       presentAudioVideo(o.Trailer),
		Video:         presentAudioVideo(o.Video),
		CreatedAt:     o.CreatedAt,
	}
	for _, ref := range o.Categories {
		p.Categories = append(p.Categories, RelationPresenter{ID: ref.ID, Name: ref.Name})
	}
	for _, ref := range o.Genres {
		p.Genres = append(p.Genres, RelationPresenter{ID: ref.ID, Name: ref.Name})
	}
	for _, ref := range o.CastMembers {
		p.CastMembers = append(p.CastMembers, VideoCastMemberPresenter{ID: ref.ID, Name: ref.Name, Type: ref.Type})
	}
	return p
}

func presentImage(m *appvideo.ImageOutput) *ImagePresenter {
	if m == nil {
		return nil
	}
	return &ImagePresenter{Name: m.Name, Location: m.Location}
}

func presentAudioVideo(m *appvideo.AudioVideoOutput) *AudioVideoPresenter {
	if m == nil {
		return nil
	}
	return &AudioVideoPresenter{
		Name:            m.Name,
		RawLocation:     m.RawLocation,
		EncodedLocation: m.EncodedLocation,
		Status:          m.Status,
	}
}

func (ctrl *VideoController) Create(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	out, err := ctrl.VideoUsecase.Create(c.Request.Context(), appvideo.CreateCommand{
		Title:         req.Title,
		Description:   req.Description,
		YearLaunched:  req.YearLaunched,
		Duration:      req.Duration,
		Rating:        video.Rating(req.Rating),
		IsOpened:      req.IsOpened,
		CategoryIDs:   req.CategoriesID,
		GenreIDs:      req.GenresID,
		CastMemberIDs: req.CastMembersID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, presentVideo(out))
}

func (ctrl *VideoController) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req updateVideoRequest
	if _, err := bindPatch(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	cmd := appvideo.UpdateCommand{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		YearLaunched:  req.YearLaunched,
		Duration:      req.Duration,
		IsOpened:      req.IsOpened,
		CategoryIDs:   req.CategoriesID,
		GenreIDs:      req.GenresID,
		CastMemberIDs: req.CastMembersID,
	}
	if req.Rating != nil {
		r := video.Rating(*req.Rating)
		cmd.Rating = &r
	}
	out, err := ctrl.VideoUsecase.Update(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentVideo(out))
}

func (ctrl *VideoController) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.VideoUsecase.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctrl *VideoController) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := ctrl.VideoUsecase.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentVideo(out))
}

func (ctrl *VideoController) List(c *gin.Context) {
	var filter video.Filter
	var err error
	filter.Title = filterValue(c, "title")
	if filter.CategoryIDs, err = filterIDs(c, "categories_id"); err != nil {
		_ = c.Error(err)
		return
	}
	if filter.GenreIDs, err = filterIDs(c, "genres_id"); err != nil {
		_ = c.Error(err)
		return
	}
	if filter.CastMemberIDs, err = filterIDs(c, "cast_members_id"); err != nil {
		_ = c.Error(err)
		return
	}

	params, err := searchParams(c, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := ctrl.VideoUsecase.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondList(c, res, presentVideo)
}

// Upload stores the single file sent as banner, thumbnail, thumbnail_half,
// trailer or video.
func (ctrl *VideoController) Upload(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if ctrl.UploadTimeout > 0 {
		deadline := time.Now().Add(ctrl.UploadTimeout)
		rc := http.NewResponseController(c.Writer)
		// Recorders used in tests don't support deadlines.
		_ = rc.SetReadDeadline(deadline)
		_ = rc.SetWriteDeadline(deadline)
	}
	if ctrl.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.MaxUploadBytes+multipartOverhead)
	}

	field, fh, err := singleUpload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		_ = c.Error(pkgerrors.Wrap(pkgerrors.ErrorTypeBadRequest, "unreadable upload", err))
		return
	}
	defer f.Close()

	out, err := ctrl.VideoUsecase.UploadMedia(c.Request.Context(), appvideo.UploadMediaCommand{
		VideoID: id,
		Field:   field,
		File: appvideo.File{
			Name:     fh.Filename,
			Size:     fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
			Content:  f,
		},
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentVideo(out))
}

func singleUpload(c *gin.Context) (string, *multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, pkgerrors.TooLarge(fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit-multipartOverhead))
		}
		return "", nil, pkgerrors.Wrap(pkgerrors.ErrorTypeBadRequest, "expected a multipart/form-data body", err)
	}
	form := c.Request.MultipartForm

	var fields []string
	for name, files := range form.File {
		if len(files) > 0 {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)

	allowed := make([]string, 0, len(video.ImageFields)+len(video.AudioVideoFields))
	for _, f := range append(append([]video.MediaField{}, video.ImageFields...), video.AudioVideoFields...) {
		allowed = append(allowed, string(f))
	}

	switch {
	case len(fields) == 0:
		return "", nil, pkgerrors.Validation("upload validation failed",
			fmt.Sprintf("one of the following fields is required: %s", strings.Join(allowed, ", ")))
	case len(fields) > 1:
		return "", nil, pkgerrors.Validation("upload validation failed",
			fmt.Sprintf("only one file may be uploaded at a time, got %s", strings.Join(fields, ", ")))
	}

	name := fields[0]
	if _, err := video.ParseMediaField(name); err != nil {
		return "", nil, pkgerrors.Validation("upload validation failed",
			fmt.Sprintf("%s is not a media field, expected one of %s", name, strings.Join(allowed, ", ")))
	}
	files := form.File[name]
	if len(files) > 1 {
		return "", nil, pkgerrors.Validation("upload validation failed",
			fmt.Sprintf("%s accepts a single file", name))
	}
	return name, files[0], nil
}
