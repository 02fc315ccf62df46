package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// GenreRepository implements genre.Repository
type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Insert(ctx context.Context, g *genre.Genre) error {
	var model GenreModel
	model.FromDomain(g)
	db := conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(&model).Error; err != nil {
		return err
	}
	return r.saveCategories(db, model)
}

func (r *GenreRepository) Update(ctx context.Context, g *genre.Genre) error {
	var model GenreModel
	model.FromDomain(g)
	db := conn(ctx, r.db)
	result := db.Model(&GenreModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":      model.Name,
			"is_active": model.IsActive,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(genre.AggregateType, g.ID())
	}
	if err := db.Delete(&GenreCategoryModel{}, "genre_id = ?", model.ID).Error; err != nil {
		return err
	}
	return r.saveCategories(db, model)
}

func (r *GenreRepository) saveCategories(db *gorm.DB, model GenreModel) error {
	if len(model.Categories) == 0 {
		return nil
	}
	return db.Create(&model.Categories).Error
}

// Delete removes the genre and detaches it from videos.
func (r *GenreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	result := db.Delete(&GenreModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(genre.AggregateType, id)
	}
	if err := db.Delete(&GenreCategoryModel{}, "genre_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&VideoGenreModel{}, "genre_id = ?", id).Error
}

func (r *GenreRepository) FindByID(ctx context.Context, id uuid.UUID) (*genre.Genre, error) {
	var model GenreModel
	err := conn(ctx, r.db).Preload("Categories").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(genre.AggregateType, id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GenreRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*genre.Genre, error) {
	if len(ids) == 0 {
		return []*genre.Genre{}, nil
	}
	var models []GenreModel
	if err := conn(ctx, r.db).Preload("Categories").Where("id IN ?", ids).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return genresToDomain(models), nil
}

func (r *GenreRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	return existsByIDs(conn(ctx, r.db), GenreModel{}.TableName(), ids)
}

// Search matches genres linked to any of Filter.CategoryIDs.
func (r *GenreRepository) Search(ctx context.Context, params genre.SearchParams) (genre.SearchResult, error) {
	db := conn(ctx, r.db)
	q := nameLike(db.Model(&GenreModel{}), "name", params.Filter.Name)
	if len(params.Filter.CategoryIDs) > 0 {
		q = q.Where("id IN (?)", db.Model(&GenreCategoryModel{}).
			Select("genre_id").
			Where("category_id IN ?", params.Filter.CategoryIDs))
	}

	var models []GenreModel
	total, err := page(q, params, &models, "Categories")
	if err != nil {
		return genre.SearchResult{}, fmt.Errorf("searching genres: %w", err)
	}
	return pagination.NewSearchResult(genresToDomain(models), total, params), nil
}

func genresToDomain(models []GenreModel) []*genre.Genre {
	out := make([]*genre.Genre, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out
}
