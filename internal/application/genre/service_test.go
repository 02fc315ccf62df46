package genre_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/catalog/internal/application/apptest"
	appgenre "github.com/narwhalmedia/catalog/internal/application/genre"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

type mockGenreRepo struct {
	mock.Mock
}

func (m *mockGenreRepo) Insert(ctx context.Context, g *genre.Genre) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGenreRepo) Update(ctx context.Context, g *genre.Genre) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGenreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*genre.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genre.Genre), args.Error(1)
}

func (m *mockGenreRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*genre.Genre, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*genre.Genre), args.Error(1)
}

func (m *mockGenreRepo) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Get(1).([]uuid.UUID), args.Error(2)
}

func (m *mockGenreRepo) Search(ctx context.Context, p genre.SearchParams) (genre.SearchResult, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(genre.SearchResult), args.Error(1)
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

type ServiceTestSuite struct {
	suite.Suite
	repo       *mockGenreRepo
	categories *mockCategoryRepo
	uow        *apptest.UnitOfWork
	service    *appgenre.Service
	movie      *category.Category
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.repo = new(mockGenreRepo)
	s.categories = new(mockCategoryRepo)
	s.uow = &apptest.UnitOfWork{}
	s.service = appgenre.NewService(s.repo, s.categories, s.uow, logger.NewNoop())
	s.movie = category.Restore(uuid.New(), "Movie", nil, true, time.Now())
}

func (s *ServiceTestSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
	s.categories.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestCreate() {
	ids := []uuid.UUID{s.movie.ID()}
	s.categories.On("ExistsByIDs", mock.Anything, ids).Return(ids, []uuid.UUID{}, nil)
	s.categories.On("FindByIDs", mock.Anything, ids).Return([]*category.Category{s.movie}, nil)
	s.repo.On("Insert", mock.Anything, mock.AnythingOfType("*genre.Genre")).Return(nil)

	out, err := s.service.Create(context.Background(), appgenre.CreateCommand{Name: "Drama", CategoryIDs: ids})

	s.Require().NoError(err)
	s.Equal("Drama", out.Name)
	s.True(out.IsActive)
	s.Require().Len(out.Categories, 1)
	s.Equal("Movie", out.Categories[0].Name)
	s.Equal(1, s.uow.Committed)
}

func (s *ServiceTestSuite) TestCreate_ReportsMissingCategoriesWithDomainErrors() {
	missing := uuid.New()
	ids := []uuid.UUID{missing}
	s.categories.On("ExistsByIDs", mock.Anything, ids).Return([]uuid.UUID{}, ids, nil)

	_, err := s.service.Create(context.Background(), appgenre.CreateCommand{Name: "", CategoryIDs: ids})

	s.Require().Error(err)
	s.True(pkgerrors.IsValidation(err))
	s.Equal([]string{
		"name should not be empty",
		"Category Not Found using ID " + missing.String(),
	}, pkgerrors.DetailsOf(err))
	s.Equal(0, s.uow.Committed)
}

func (s *ServiceTestSuite) TestUpdate_SyncsCategories() {
	other := category.Restore(uuid.New(), "Series", nil, true, time.Now())
	g := genre.Restore(uuid.New(), "Drama", []uuid.UUID{s.movie.ID()}, true, time.Now())
	ids := []uuid.UUID{other.ID()}

	s.repo.On("FindByID", mock.Anything, g.ID()).Return(g, nil)
	s.categories.On("ExistsByIDs", mock.Anything, ids).Return(ids, []uuid.UUID{}, nil)
	s.repo.On("Update", mock.Anything, g).Return(nil)
	s.categories.On("FindByIDs", mock.Anything, ids).Return([]*category.Category{other}, nil)

	inactive := false
	out, err := s.service.Update(context.Background(), appgenre.UpdateCommand{
		ID:          g.ID(),
		CategoryIDs: ids,
		IsActive:    &inactive,
	})

	s.Require().NoError(err)
	s.Equal(ids, out.CategoryIDs)
	s.False(out.IsActive)
}

func (s *ServiceTestSuite) TestUpdate_EmptyCategories() {
	g := genre.Restore(uuid.New(), "Drama", []uuid.UUID{s.movie.ID()}, true, time.Now())
	s.repo.On("FindByID", mock.Anything, g.ID()).Return(g, nil)

	_, err := s.service.Update(context.Background(), appgenre.UpdateCommand{ID: g.ID(), CategoryIDs: []uuid.UUID{}})

	s.True(pkgerrors.IsValidation(err))
	s.Equal([]string{"categories_id should not be empty"}, pkgerrors.DetailsOf(err))
}

func (s *ServiceTestSuite) TestList_LoadsCategoriesOnce() {
	g1 := genre.Restore(uuid.New(), "Drama", []uuid.UUID{s.movie.ID()}, true, time.Now())
	g2 := genre.Restore(uuid.New(), "Comedy", []uuid.UUID{s.movie.ID()}, true, time.Now())
	s.repo.On("Search", mock.Anything, mock.Anything).
		Return(genre.SearchResult{Items: []*genre.Genre{g1, g2}, Total: 2, CurrentPage: 1, PerPage: 15}, nil)
	s.categories.On("FindByIDs", mock.Anything, []uuid.UUID{s.movie.ID(), s.movie.ID()}).
		Return([]*category.Category{s.movie}, nil).Once()

	out, err := s.service.List(context.Background(), appgenre.ListQuery{})

	s.Require().NoError(err)
	s.Require().Len(out.Items, 2)
	s.Equal("Movie", out.Items[1].Categories[0].Name)
	s.Equal(int64(2), out.Total)
}
