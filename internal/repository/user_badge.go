package repository

import (
	"context"
	"time"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AwardedBadge struct {
	entity.Badge
	AwardedAt time.Time
}

type UserBadgeRepository interface {
	Create(ctx context.Context, data *entity.UserBadge) (bool, error)
	GetBadgeIDs(ctx context.Context, userID string) ([]string, error)
	GetListByUserID(ctx context.Context, userID string) ([]AwardedBadge, error)
}

type userBadgeRepository struct{}

func NewUserBadgeRepository() *userBadgeRepository {
	return &userBadgeRepository{}
}

// Create awards the badge. It returns false if the user already held it.
func (r *userBadgeRepository) Create(ctx context.Context, data *entity.UserBadge) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *userBadgeRepository) GetBadgeIDs(ctx context.Context, userID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.UserBadge{}).
		Where("user_id=?", userID).
		Pluck("badge_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userBadgeRepository) GetListByUserID(ctx context.Context, userID string) ([]AwardedBadge, error) {
	var result []AwardedBadge
	err := xcontext.DB(ctx).
		Table("badges").
		Select("badges.*, user_badges.awarded_at").
		Joins("JOIN user_badges ON user_badges.badge_id=badges.id").
		Where("user_badges.user_id=?", userID).
		Order("user_badges.awarded_at ASC").
		Order("badges.slug ASC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
