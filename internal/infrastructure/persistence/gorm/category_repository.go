package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// CategoryRepository implements category.Repository
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Insert(ctx context.Context, c *category.Category) error {
	var model CategoryModel
	model.FromDomain(c)
	return conn(ctx, r.db).Create(&model).Error
}

func (r *CategoryRepository) BulkInsert(ctx context.Context, cs []*category.Category) error {
	if len(cs) == 0 {
		return nil
	}
	models := make([]CategoryModel, len(cs))
	for i, c := range cs {
		models[i].FromDomain(c)
	}
	return conn(ctx, r.db).CreateInBatches(models, 100).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := conn(ctx, r.db).Model(&CategoryModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]any{
			"name":        c.Name(),
			"description": c.Description(),
			"is_active":   c.IsActive(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(category.AggregateType, c.ID())
	}
	return nil
}

// Delete removes the category and detaches it from genres and videos. It
// returns a conflict when a genre or video would be left without categories.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	for _, owner := range []struct{ entity, table, column string }{
		{"genres", GenreCategoryModel{}.TableName(), "genre_id"},
		{"videos", VideoCategoryModel{}.TableName(), "video_id"},
	} {
		ids, err := soleCategoryOwners(db, owner.table, owner.column, id)
		if err != nil {
			return fmt.Errorf("checking %s of category: %w", owner.entity, err)
		}
		if len(ids) > 0 {
			return pkgerrors.Conflict(fmt.Sprintf("category %s is the only category of %s: %s",
				id, owner.entity, joinIDs(ids)))
		}
	}

	result := db.Delete(&CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(category.AggregateType, id)
	}
	if err := db.Delete(&GenreCategoryModel{}, "category_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&VideoCategoryModel{}, "category_id = ?", id).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	var model CategoryModel
	err := conn(ctx, r.db).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(category.AggregateType, id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*category.Category, error) {
	if len(ids) == 0 {
		return []*category.Category{}, nil
	}
	var models []CategoryModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*category.Category, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

func (r *CategoryRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	return existsByIDs(conn(ctx, r.db), CategoryModel{}.TableName(), ids)
}

func (r *CategoryRepository) Search(ctx context.Context, params category.SearchParams) (category.SearchResult, error) {
	q := nameLike(conn(ctx, r.db).Model(&CategoryModel{}), "name", params.Filter.Name)

	var models []CategoryModel
	total, err := page(q, params, &models)
	if err != nil {
		return category.SearchResult{}, fmt.Errorf("searching categories: %w", err)
	}
	items := make([]*category.Category, len(models))
	for i := range models {
		items[i] = models[i].ToDomain()
	}
	return pagination.NewSearchResult(items, total, params), nil
}

// soleCategoryOwners returns the rows of a category join table whose only
// category is categoryID.
func soleCategoryOwners(db *gorm.DB, table, column string, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Table(table).
		Where(column+" IN (?)", db.Table(table).Select(column).Where("category_id = ?", categoryID)).
		Group(column).
		Having("COUNT(*) = 1").
		Pluck(column, &ids).Error
	return ids, err
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

func notFound(entity string, ids ...uuid.UUID) error {
	return pkgerrors.NotFound(application.NotFoundMessage(entity, ids...))
}
