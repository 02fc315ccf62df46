package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/internal/domain/video"
)

// NewCategory creates an active category.
func NewCategory(t *testing.T, name string) *category.Category {
	t.Helper()
	c, err := category.New(name, nil, true)
	require.NoError(t, err)
	return c
}

// NewCastMember creates an actor.
func NewCastMember(t *testing.T, name string) *castmember.CastMember {
	t.Helper()
	m, err := castmember.New(name, castmember.TypeActor)
	require.NoError(t, err)
	return m
}

// NewGenre creates an active genre in categoryIDs.
func NewGenre(t *testing.T, name string, categoryIDs ...uuid.UUID) *genre.Genre {
	t.Helper()
	g, err := genre.New(name, categoryIDs, true)
	require.NoError(t, err)
	return g
}

// NewVideo creates a valid video linked to the given relations.
func NewVideo(t *testing.T, title string, categoryIDs, genreIDs, castMemberIDs []uuid.UUID) *video.Video {
	t.Helper()
	v, err := video.New(video.Props{
		Title:         title,
		Description:   title + " description",
		YearLaunched:  2010,
		Duration:      148,
		Rating:        video.Rating14,
		CategoryIDs:   categoryIDs,
		GenreIDs:      genreIDs,
		CastMemberIDs: castMemberIDs,
	})
	require.NoError(t, err)
	return v
}
