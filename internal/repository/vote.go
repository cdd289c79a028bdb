package repository

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type VoteRepository interface {
	Get(ctx context.Context, userID string, targetType entity.VoteTargetType, targetID string) (*entity.Vote, error)
	GetValues(ctx context.Context, userID string, targetType entity.VoteTargetType, targetIDs []string) (map[string]int, error)
	Create(ctx context.Context, data *entity.Vote) error
	UpdateValue(ctx context.Context, id string, value int) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, userID string, onlyUpvotes bool) (int64, error)
}

type voteRepository struct{}

func NewVoteRepository() *voteRepository {
	return &voteRepository{}
}

func (r *voteRepository) Get(
	ctx context.Context, userID string, targetType entity.VoteTargetType, targetID string,
) (*entity.Vote, error) {
	var result entity.Vote
	err := xcontext.DB(ctx).
		Where("user_id=? AND target_type=? AND target_id=?", userID, targetType, targetID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetValues returns the votes of user on the given targets, keyed by target id.
func (r *voteRepository) GetValues(
	ctx context.Context, userID string, targetType entity.VoteTargetType, targetIDs []string,
) (map[string]int, error) {
	var votes []entity.Vote
	err := xcontext.DB(ctx).
		Where("user_id=? AND target_type=? AND target_id IN (?)", userID, targetType, targetIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int, len(votes))
	for _, v := range votes {
		result[v.TargetID] = v.Value
	}

	return result, nil
}

func (r *voteRepository) Create(ctx context.Context, data *entity.Vote) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *voteRepository) UpdateValue(ctx context.Context, id string, value int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Vote{}).
		Where("id=?", id).
		Update("value", value)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *voteRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Vote{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *voteRepository) Count(ctx context.Context, userID string, onlyUpvotes bool) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Vote{}).Where("user_id=?", userID)
	if onlyUpvotes {
		tx = tx.Where("value > 0")
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
