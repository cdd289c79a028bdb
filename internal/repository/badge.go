package repository

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	Upsert(ctx context.Context, badge *entity.Badge) error
	GetAll(ctx context.Context) ([]entity.Badge, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Badge, error)
}

type badgeRepository struct{}

func NewBadgeRepository() *badgeRepository {
	return &badgeRepository{}
}

// Upsert inserts the badge or refreshes the existing one with the same slug.
// The id of an existing badge is never changed.
func (r *badgeRepository) Upsert(ctx context.Context, badge *entity.Badge) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        badge.Name,
				"description": badge.Description,
				"tier":        badge.Tier,
				"icon":        badge.Icon,
				"criteria":    badge.Criteria,
			}),
		}).Create(badge).Error
}

func (r *badgeRepository) GetAll(ctx context.Context) ([]entity.Badge, error) {
	var result []entity.Badge
	if err := xcontext.DB(ctx).Order("slug ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *badgeRepository) GetBySlug(ctx context.Context, slug string) (*entity.Badge, error) {
	var result entity.Badge
	if err := xcontext.DB(ctx).Take(&result, "slug=?", slug).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
