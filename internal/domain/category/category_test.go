package category_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/catalog/internal/domain/category"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

type CategoryTestSuite struct {
	suite.Suite
}

func TestCategoryTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryTestSuite))
}

func (s *CategoryTestSuite) TestNew() {
	desc := "some description"

	c, err := category.New("Movie", &desc, true)

	s.Require().NoError(err)
	s.NotEqual("00000000-0000-0000-0000-000000000000", c.ID().String())
	s.Equal("Movie", c.Name())
	s.Equal(&desc, c.Description())
	s.True(c.IsActive())
	s.False(c.CreatedAt().IsZero())
}

func (s *CategoryTestSuite) TestNew_InvalidName() {
	_, err := category.New("", nil, true)
	s.Require().Error(err)
	s.True(pkgerrors.IsValidation(err))
	s.Equal([]string{"name should not be empty"}, pkgerrors.DetailsOf(err))

	_, err = category.New(strings.Repeat("a", 256), nil, true)
	s.Require().Error(err)
	s.Equal([]string{"name must be shorter than or equal to 255 characters"}, pkgerrors.DetailsOf(err))
}

func (s *CategoryTestSuite) TestChangeNameAndActivation() {
	c, err := category.New("Movie", nil, false)
	s.Require().NoError(err)

	s.Require().NoError(c.ChangeName("Documentary"))
	s.Equal("Documentary", c.Name())

	c.Activate()
	s.True(c.IsActive())
	c.Deactivate()
	s.False(c.IsActive())

	s.Error(c.ChangeName(""))
}
