package video_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/catalog/internal/application/apptest"
	appvideo "github.com/narwhalmedia/catalog/internal/application/video"
	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

type mockVideoRepo struct {
	mock.Mock
}

func (m *mockVideoRepo) Insert(ctx context.Context, v *video.Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVideoRepo) Update(ctx context.Context, v *video.Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockVideoRepo) FindByID(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*video.Video), args.Error(1)
}

func (m *mockVideoRepo) Search(ctx context.Context, p video.SearchParams) (video.SearchResult, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(video.SearchResult), args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
	category.Repository
}

func (m *mockCategoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*category.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *mockCategoryRepo) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Get(1).([]uuid.UUID), args.Error(2)
}

type mockGenreRepo struct {
	mock.Mock
	genre.Repository
}

func (m *mockGenreRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*genre.Genre, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*genre.Genre), args.Error(1)
}

func (m *mockGenreRepo) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Get(1).([]uuid.UUID), args.Error(2)
}

type mockCastMemberRepo struct {
	mock.Mock
	castmember.Repository
}

func (m *mockCastMemberRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*castmember.CastMember, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*castmember.CastMember), args.Error(1)
}

func (m *mockCastMemberRepo) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Get(1).([]uuid.UUID), args.Error(2)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Store(ctx context.Context, key string, r io.Reader, size int64, mimeType string) error {
	return m.Called(ctx, key, r, size, mimeType).Error(0)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type ServiceTestSuite struct {
	suite.Suite
	videos      *mockVideoRepo
	categories  *mockCategoryRepo
	genres      *mockGenreRepo
	castMembers *mockCastMemberRepo
	storage     *mockStorage
	publisher   *apptest.Publisher
	eventStore  *apptest.EventStore
	uow         *apptest.UnitOfWork
	service     *appvideo.ApplicationService
	ctx         context.Context

	categoryID, genreID, castMemberID uuid.UUID
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.videos = new(mockVideoRepo)
	s.categories = new(mockCategoryRepo)
	s.genres = new(mockGenreRepo)
	s.castMembers = new(mockCastMemberRepo)
	s.storage = new(mockStorage)
	s.publisher = new(apptest.Publisher)
	s.uow = &apptest.UnitOfWork{}

	sink, store := apptest.NewEventSink()
	s.eventStore = store
	s.service = appvideo.NewApplicationService(
		appvideo.Repositories{
			Videos:      s.videos,
			Categories:  s.categories,
			Genres:      s.genres,
			CastMembers: s.castMembers,
		},
		s.storage,
		appvideo.UploadPolicy{
			ImageMaxBytes:   1024,
			TrailerMaxBytes: 4096,
			VideoMaxBytes:   8192,
			ImageMimeTypes:  []string{"image/jpeg", "image/png"},
			VideoMimeTypes:  []string{"video/mp4"},
		},
		sink,
		s.publisher,
		s.uow,
		logger.NewNoop(),
	)
	s.ctx = logger.WithRequestID(context.Background(), "req-1")

	s.categoryID, s.genreID, s.castMemberID = uuid.New(), uuid.New(), uuid.New()
	s.categories.On("FindByIDs", mock.Anything, mock.Anything).Return([]*category.Category{}, nil).Maybe()
	s.genres.On("FindByIDs", mock.Anything, mock.Anything).Return([]*genre.Genre{}, nil).Maybe()
	s.castMembers.On("FindByIDs", mock.Anything, mock.Anything).Return([]*castmember.CastMember{}, nil).Maybe()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.videos.AssertExpectations(s.T())
	s.storage.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) existingVideo() *video.Video {
	v, err := video.New(video.Props{
		Title:         "The Movie",
		Description:   "A film",
		YearLaunched:  2020,
		Duration:      90,
		Rating:        video.Rating14,
		CategoryIDs:   []uuid.UUID{s.categoryID},
		GenreIDs:      []uuid.UUID{s.genreID},
		CastMemberIDs: []uuid.UUID{s.castMemberID},
	})
	s.Require().NoError(err)
	v.PullEvents()
	return v
}

func (s *ServiceTestSuite) createCommand() appvideo.CreateCommand {
	return appvideo.CreateCommand{
		Title:         "The Movie",
		Description:   "A film",
		YearLaunched:  2020,
		Duration:      90,
		Rating:        video.Rating14,
		CategoryIDs:   []uuid.UUID{s.categoryID},
		GenreIDs:      []uuid.UUID{s.genreID},
		CastMemberIDs: []uuid.UUID{s.castMemberID},
	}
}

func (s *ServiceTestSuite) TestCreate() {
	s.categories.On("ExistsByIDs", mock.Anything, []uuid.UUID{s.categoryID}).Return([]uuid.UUID{s.categoryID}, []uuid.UUID{}, nil)
	s.genres.On("ExistsByIDs", mock.Anything, []uuid.UUID{s.genreID}).Return([]uuid.UUID{s.genreID}, []uuid.UUID{}, nil)
	s.castMembers.On("ExistsByIDs", mock.Anything, []uuid.UUID{s.castMemberID}).Return([]uuid.UUID{s.castMemberID}, []uuid.UUID{}, nil)
	s.videos.On("Insert", mock.Anything, mock.AnythingOfType("*video.Video")).Return(nil)

	out, err := s.service.Create(s.ctx, s.createCommand())

	s.Require().NoError(err)
	s.Equal("The Movie", out.Title)
	s.False(out.IsPublished)
	s.Nil(out.Video)
	s.Equal([]string{video.EventTypeVideoCreated}, s.eventStore.Types())
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestCreate_MissingRelations() {
	s.categories.On("ExistsByIDs", mock.Anything, mock.Anything).Return([]uuid.UUID{}, []uuid.UUID{s.categoryID}, nil)
	s.genres.On("ExistsByIDs", mock.Anything, mock.Anything).Return([]uuid.UUID{s.genreID}, []uuid.UUID{}, nil)
	s.castMembers.On("ExistsByIDs", mock.Anything, mock.Anything).Return([]uuid.UUID{}, []uuid.UUID{s.castMemberID}, nil)

	_, err := s.service.Create(s.ctx, s.createCommand())

	s.True(pkgerrors.IsValidation(err))
	s.Equal([]string{
		"Category Not Found using ID " + s.categoryID.String(),
		"CastMember Not Found using ID " + s.castMemberID.String(),
	}, pkgerrors.DetailsOf(err))
	s.Equal(0, s.uow.Committed)
	s.Empty(s.eventStore.Types())
}

func (s *ServiceTestSuite) TestUploadAudioVideoMedia_PublishesAfterCommit() {
	v := s.existingVideo()
	key := video.StorageKey(v.ID(), video.FieldVideo, "movie.mp4")
	content := strings.NewReader("bytes")

	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, key, content, int64(5), "video/mp4").Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)
	s.publisher.On("PublishIntegrationEvent", mock.Anything, mock.MatchedBy(func(e *video.AudioMediaUploadedIntegrationEvent) bool {
		p := e.Payload().(video.AudioMediaUploadedPayload)
		return p.ResourceID == v.ID().String()+".video" &&
			p.FilePath == key &&
			e.CorrelationID() == "req-1" &&
			e.PublishedAt() != nil
	})).Return(nil)

	out, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "video",
		File:    appvideo.File{Name: "movie.mp4", Size: 5, MimeType: "video/mp4", Content: content},
	})

	s.Require().NoError(err)
	s.Require().NotNil(out.Video)
	s.Equal(video.MediaStatusPending, out.Video.Status)
	s.Equal(key, out.Video.RawLocation)
	s.Equal([]string{video.EventTypeAudioMediaReplaced}, s.eventStore.Types())
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestUploadAudioVideoMedia_PublishFailureIsNotFatal() {
	v := s.existingVideo()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)
	s.publisher.On("PublishIntegrationEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := s.service.UploadAudioVideoMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "trailer",
		File:    appvideo.File{Name: "t.mp4", Size: 10, MimeType: "video/mp4; codecs=avc1", Content: strings.NewReader("0123456789")},
	})

	s.NoError(err)
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestUploadImageMedia_DoesNotPublish() {
	v := s.existingVideo()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, mock.Anything, mock.Anything, int64(3), "image/png").Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)

	out, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "banner",
		File:    appvideo.File{Name: "b.PNG", Size: 3, MimeType: "image/png", Content: strings.NewReader("png")},
	})

	s.Require().NoError(err)
	s.Require().NotNil(out.Banner)
	s.True(strings.HasSuffix(out.Banner.Location, ".png"))
	s.Empty(s.eventStore.Types())
}

func (s *ServiceTestSuite) TestUpload_RejectsFileBeforeTouchingStorage() {
	_, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: uuid.New(),
		Field:   "thumbnail",
		File:    appvideo.File{Name: "t.gif", Size: 2048, MimeType: "image/gif", Content: strings.NewReader("")},
	})

	s.True(pkgerrors.IsValidation(err))
	s.Equal([]string{
		"thumbnail must be one of the following types: image/jpeg, image/png",
		"thumbnail must be smaller than or equal to 1024 bytes",
	}, pkgerrors.DetailsOf(err))
	s.Equal(0, s.uow.Begun)

	_, err = s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{VideoID: uuid.New(), Field: "poster"})
	s.ErrorIs(err, video.ErrInvalidMediaField)
}

func (s *ServiceTestSuite) TestUpload_StoresBlobBeforeOpeningTransaction() {
	v := s.existingVideo()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { s.Equal(0, s.uow.Begun) }).
		Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)

	_, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "thumbnail",
		File:    appvideo.File{Name: "t.png", Size: 3, MimeType: "image/png", Content: strings.NewReader("png")},
	})

	s.Require().NoError(err)
	s.Equal(1, s.uow.Begun)
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestUpload_DeletesReplacedBlobAfterCommit() {
	v := s.existingVideo()
	s.Require().NoError(v.ReplaceBanner(video.NewImageMedia("old.png", "videos/old.png")))
	newKey := video.StorageKey(v.ID(), video.FieldBanner, "new.png")
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, newKey, mock.Anything, int64(3), "image/png").Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)
	s.storage.On("Delete", mock.Anything, "videos/old.png").
		Run(func(mock.Arguments) { s.Equal(1, s.uow.Committed) }).
		Return(nil)

	out, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "banner",
		File:    appvideo.File{Name: "new.png", Size: 3, MimeType: "image/png", Content: strings.NewReader("png")},
	})

	s.Require().NoError(err)
	s.Equal(newKey, out.Banner.Location)
}

func (s *ServiceTestSuite) TestUpload_SameFileNameKeepsBlob() {
	v := s.existingVideo()
	key := video.StorageKey(v.ID(), video.FieldTrailer, "t.mp4")
	s.Require().NoError(v.ReplaceTrailer(video.NewAudioVideoMedia("t.mp4", key)))
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, key, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(errors.New("db down"))

	_, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "trailer",
		File:    appvideo.File{Name: "t.mp4", Size: 1, MimeType: "video/mp4", Content: strings.NewReader("x")},
	})

	s.Error(err)
	s.storage.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestUpload_FailedTransactionDeletesStoredBlob() {
	v := s.existingVideo()
	key := video.StorageKey(v.ID(), video.FieldVideo, "m.mp4")
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.storage.On("Store", mock.Anything, key, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.videos.On("Update", mock.Anything, v).Return(errors.New("db down"))
	s.storage.On("Delete", mock.Anything, key).Return(nil)

	_, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: v.ID(),
		Field:   "video",
		File:    appvideo.File{Name: "m.mp4", Size: 1, MimeType: "video/mp4", Content: strings.NewReader("x")},
	})

	s.ErrorContains(err, "db down")
	s.Equal(0, s.uow.Committed)
	s.Equal(1, s.uow.RolledBack)
}

func (s *ServiceTestSuite) TestUpload_VideoNotFound() {
	id := uuid.New()
	s.videos.On("FindByID", mock.Anything, id).Return(nil, pkgerrors.NotFoundf("Video Not Found using ID %s", id))

	_, err := s.service.UploadMedia(s.ctx, appvideo.UploadMediaCommand{
		VideoID: id,
		Field:   "video",
		File:    appvideo.File{Name: "m.mp4", Size: 1, MimeType: "video/mp4", Content: strings.NewReader("x")},
	})

	s.True(pkgerrors.IsNotFound(err))
}

func (s *ServiceTestSuite) TestProcessAudioVideoMedia_Completed() {
	v := s.existingVideo()
	s.Require().NoError(v.ReplaceTrailer(video.NewAudioVideoMedia("t.mp4", "raw/t.mp4")))
	v.PullEvents()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)

	err := s.service.ProcessAudioVideoMedia(s.ctx, appvideo.ProcessAudioVideoMediaCommand{
		VideoID:         v.ID(),
		Field:           "trailer",
		EncodedLocation: "encoded/t",
		Status:          "COMPLETED",
	})

	s.Require().NoError(err)
	s.Equal(video.MediaStatusCompleted, v.AudioVideo(video.FieldTrailer).Status())
	s.Equal([]string{video.EventTypeAudioMediaProcessed}, s.eventStore.Types())
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestProcessAudioVideoMedia_NotUploaded() {
	v := s.existingVideo()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)

	err := s.service.ProcessAudioVideoMedia(s.ctx, appvideo.ProcessAudioVideoMediaCommand{
		VideoID: v.ID(),
		Field:   "video",
		Status:  "FAILED",
	})

	s.ErrorIs(err, video.ErrMediaNotUploaded)
	s.True(video.IsMediaStateError(err))
	s.Equal(0, s.uow.Committed)
}

func (s *ServiceTestSuite) TestProcessAudioVideoMedia_RejectsBadInput() {
	err := s.service.ProcessAudioVideoMedia(s.ctx, appvideo.ProcessAudioVideoMediaCommand{
		VideoID: uuid.New(), Field: "video", Status: "PENDING",
	})
	s.ErrorIs(err, video.ErrInvalidMediaStatus)

	err = s.service.ProcessAudioVideoMedia(s.ctx, appvideo.ProcessAudioVideoMediaCommand{
		VideoID: uuid.New(), Field: "banner", Status: "COMPLETED",
	})
	s.ErrorIs(err, video.ErrInvalidMediaField)
	s.Equal(0, s.uow.Begun)
}

func (s *ServiceTestSuite) TestDelete_RemovesBlobs() {
	v := s.existingVideo()
	s.Require().NoError(v.ReplaceBanner(video.NewImageMedia("b.png", "videos/b")))
	s.Require().NoError(v.ReplaceVideo(video.NewAudioVideoMedia("v.mp4", "videos/v")))
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.videos.On("Delete", mock.Anything, v.ID()).Return(nil)
	s.storage.On("Delete", mock.Anything, "videos/b").Return(nil)
	s.storage.On("Delete", mock.Anything, "videos/v").Return(errors.New("gone"))

	s.NoError(s.service.Delete(s.ctx, v.ID()))
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestUpdate_Partial() {
	v := s.existingVideo()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)
	s.videos.On("Update", mock.Anything, v).Return(nil)

	title := "Renamed"
	opened := true
	out, err := s.service.Update(s.ctx, appvideo.UpdateCommand{ID: v.ID(), Title: &title, IsOpened: &opened})

	s.Require().NoError(err)
	s.Equal("Renamed", out.Title)
	s.True(out.IsOpened)
	s.Equal(2020, out.YearLaunched)
	s.Equal([]uuid.UUID{s.categoryID}, out.CategoryIDs)
}

func (s *ServiceTestSuite) TestGet_WithRelations() {
	v := s.existingVideo()
	s.videos.On("FindByID", mock.Anything, v.ID()).Return(v, nil)

	categories := new(mockCategoryRepo)
	categories.On("FindByIDs", mock.Anything, []uuid.UUID{s.categoryID}).
		Return([]*category.Category{category.Restore(s.categoryID, "Movie", nil, true, time.Now())}, nil)
	sink, _ := apptest.NewEventSink()
	svc := appvideo.NewApplicationService(
		appvideo.Repositories{Videos: s.videos, Categories: categories, Genres: s.genres, CastMembers: s.castMembers},
		s.storage, appvideo.UploadPolicy{}, sink, s.publisher, s.uow, logger.NewNoop(),
	)

	out, err := svc.Get(s.ctx, v.ID())

	s.Require().NoError(err)
	s.Equal([]appvideo.RelationRef{{ID: s.categoryID, Name: "Movie"}}, out.Categories)
	s.Empty(out.Genres)
}
