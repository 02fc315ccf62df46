package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/narwhalmedia/catalog/internal/domain/video"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

var videoAssociations = []string{"Categories", "Genres", "CastMembers", "ImageMedias", "AudioVideoMedias"}

// VideoRepository implements video.Repository. A video spans the videos
// row, three relation tables and two media tables; callers run writes
// inside a unit of work so they land together.
type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Insert(ctx context.Context, v *video.Video) error {
	var model VideoModel
	model.FromDomain(v)
	db := conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(&model).Error; err != nil {
		return err
	}
	return r.saveChildren(db, &model)
}

func (r *VideoRepository) Update(ctx context.Context, v *video.Video) error {
	var model VideoModel
	model.FromDomain(v)
	db := conn(ctx, r.db)

	result := db.Model(&VideoModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"title":         model.Title,
			"description":   model.Description,
			"year_launched": model.YearLaunched,
			"duration":      model.Duration,
			"rating":        model.Rating,
			"is_opened":     model.IsOpened,
			"is_published":  model.IsPublished,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(video.AggregateType, v.ID())
	}

	for _, child := range []any{&VideoCategoryModel{}, &VideoGenreModel{}, &VideoCastMemberModel{}} {
		if err := db.Delete(child, "video_id = ?", model.ID).Error; err != nil {
			return err
		}
	}
	return r.saveChildren(db, &model)
}

// saveChildren inserts relation rows and upserts media rows keyed by
// (video_id, video_related_field).
func (r *VideoRepository) saveChildren(db *gorm.DB, model *VideoModel) error {
	if len(model.Categories) > 0 {
		if err := db.Create(&model.Categories).Error; err != nil {
			return fmt.Errorf("saving video categories: %w", err)
		}
	}
	if len(model.Genres) > 0 {
		if err := db.Create(&model.Genres).Error; err != nil {
			return fmt.Errorf("saving video genres: %w", err)
		}
	}
	if len(model.CastMembers) > 0 {
		if err := db.Create(&model.CastMembers).Error; err != nil {
			return fmt.Errorf("saving video cast members: %w", err)
		}
	}

	mediaKey := []clause.Column{{Name: "video_id"}, {Name: "video_related_field"}}
	if len(model.ImageMedias) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   mediaKey,
			DoUpdates: clause.AssignmentColumns([]string{"name", "location"}),
		}).Create(&model.ImageMedias).Error
		if err != nil {
			return fmt.Errorf("saving image medias: %w", err)
		}
	}
	if len(model.AudioVideoMedias) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   mediaKey,
			DoUpdates: clause.AssignmentColumns([]string{"name", "raw_location", "encoded_location", "status"}),
		}).Create(&model.AudioVideoMedias).Error
		if err != nil {
			return fmt.Errorf("saving audio video medias: %w", err)
		}
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	result := db.Delete(&VideoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(video.AggregateType, id)
	}
	children := []any{
		&VideoCategoryModel{},
		&VideoGenreModel{},
		&VideoCastMemberModel{},
		&ImageMediaModel{},
		&AudioVideoMediaModel{},
	}
	for _, child := range children {
		if err := db.Delete(child, "video_id = ?", id).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	q := conn(ctx, r.db)
	for _, a := range videoAssociations {
		q = q.Preload(a)
	}
	var model VideoModel
	if err := q.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(video.AggregateType, id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search filters by title substring and by relation ids. Within one id
// list a video matches any id; the lists combine with AND.
func (r *VideoRepository) Search(ctx context.Context, params video.SearchParams) (video.SearchResult, error) {
	db := conn(ctx, r.db)
	f := params.Filter
	q := nameLike(db.Model(&VideoModel{}), "title", f.Title)
	if len(f.CategoryIDs) > 0 {
		q = q.Where("id IN (?)", db.Model(&VideoCategoryModel{}).Select("video_id").Where("category_id IN ?", f.CategoryIDs))
	}
	if len(f.GenreIDs) > 0 {
		q = q.Where("id IN (?)", db.Model(&VideoGenreModel{}).Select("video_id").Where("genre_id IN ?", f.GenreIDs))
	}
	if len(f.CastMemberIDs) > 0 {
		q = q.Where("id IN (?)", db.Model(&VideoCastMemberModel{}).Select("video_id").Where("cast_member_id IN ?", f.CastMemberIDs))
	}

	var models []VideoModel
	total, err := page(q, params, &models, videoAssociations...)
	if err != nil {
		return video.SearchResult{}, fmt.Errorf("searching videos: %w", err)
	}
	items := make([]*video.Video, len(models))
	for i := range models {
		items[i] = models[i].ToDomain()
	}
	return pagination.NewSearchResult(items, total, params), nil
}
