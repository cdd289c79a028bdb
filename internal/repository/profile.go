package repository

import (
	"context"
	"errors"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*entity.Profile, error)
	GetByIDs(ctx context.Context, userIDs []string) ([]entity.Profile, error)
	CreateIfNotExists(ctx context.Context, data *entity.Profile) error
	IncreaseReputation(ctx context.Context, userID string, delta int) error
	UpdateRole(ctx context.Context, userID string, role entity.Role) error
}

type profileRepository struct{}

func NewProfileRepository() *profileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	var result entity.Profile
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, userIDs []string) ([]entity.Profile, error) {
	var result []entity.Profile
	if err := xcontext.DB(ctx).Where("user_id IN (?)", userIDs).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *profileRepository) CreateIfNotExists(ctx context.Context, data *entity.Profile) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

// IncreaseReputation applies delta to the reputation of user. The result is
// clamped at zero, so a deduction never makes the reputation negative.
func (r *profileRepository) IncreaseReputation(ctx context.Context, userID string, delta int) error {
	if err := r.mustExist(ctx, userID); err != nil {
		return err
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Profile{}).
		Where("user_id=?", userID).
		Update("reputation", gorm.Expr(
			"CASE WHEN reputation + ? < 0 THEN 0 ELSE reputation + ? END", delta, delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, userID string, role entity.Role) error {
	if err := r.mustExist(ctx, userID); err != nil {
		return err
	}

	return xcontext.DB(ctx).
		Model(&entity.Profile{}).
		Where("user_id=?", userID).
		Update("role", role).Error
}

// mustExist returns gorm.ErrRecordNotFound if the profile is missing. MySQL
// reports changed rows rather than matched rows, so RowsAffected of an update
// cannot tell a missing profile from a no-op update.
func (r *profileRepository) mustExist(ctx context.Context, userID string) error {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Profile{}).
		Where("user_id=?", userID).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
