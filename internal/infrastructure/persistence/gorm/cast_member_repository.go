package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// CastMemberRepository implements castmember.Repository
type CastMemberRepository struct {
	db *gorm.DB
}

func NewCastMemberRepository(db *gorm.DB) *CastMemberRepository {
	return &CastMemberRepository{db: db}
}

func (r *CastMemberRepository) Insert(ctx context.Context, m *castmember.CastMember) error {
	var model CastMemberModel
	model.FromDomain(m)
	return conn(ctx, r.db).Create(&model).Error
}

func (r *CastMemberRepository) Update(ctx context.Context, m *castmember.CastMember) error {
	result := conn(ctx, r.db).Model(&CastMemberModel{}).
		Where("id = ?", m.ID()).
		Updates(map[string]any{
			"name": m.Name(),
			"type": int(m.Type()),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(castmember.AggregateType, m.ID())
	}
	return nil
}

func (r *CastMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	result := db.Delete(&CastMemberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(castmember.AggregateType, id)
	}
	return db.Delete(&VideoCastMemberModel{}, "cast_member_id = ?", id).Error
}

func (r *CastMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*castmember.CastMember, error) {
	var model CastMemberModel
	err := conn(ctx, r.db).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(castmember.AggregateType, id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *CastMemberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*castmember.CastMember, error) {
	if len(ids) == 0 {
		return []*castmember.CastMember{}, nil
	}
	var models []CastMemberModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*castmember.CastMember, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

func (r *CastMemberRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	return existsByIDs(conn(ctx, r.db), CastMemberModel{}.TableName(), ids)
}

func (r *CastMemberRepository) Search(ctx context.Context, params castmember.SearchParams) (castmember.SearchResult, error) {
	q := nameLike(conn(ctx, r.db).Model(&CastMemberModel{}), "name", params.Filter.Name)
	if params.Filter.Type != 0 {
		q = q.Where("type = ?", int(params.Filter.Type))
	}

	var models []CastMemberModel
	total, err := page(q, params, &models)
	if err != nil {
		return castmember.SearchResult{}, fmt.Errorf("searching cast members: %w", err)
	}
	items := make([]*castmember.CastMember, len(models))
	for i := range models {
		items[i] = models[i].ToDomain()
	}
	return pagination.NewSearchResult(items, total, params), nil
}
