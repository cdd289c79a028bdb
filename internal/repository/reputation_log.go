package repository

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
)

type ReputationLogRepository interface {
	Create(ctx context.Context, data *entity.ReputationLog) error
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.ReputationLog, error)
	SumBySource(ctx context.Context, userID, sourceID string) (int, error)
}

type reputationLogRepository struct{}

func NewReputationLogRepository() *reputationLogRepository {
	return &reputationLogRepository{}
}

func (r *reputationLogRepository) Create(ctx context.Context, data *entity.ReputationLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *reputationLogRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.ReputationLog, error) {
	var result []entity.ReputationLog
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SumBySource returns the net reputation change of user caused by a source.
func (r *reputationLogRepository) SumBySource(ctx context.Context, userID, sourceID string) (int, error) {
	var result int
	err := xcontext.DB(ctx).
		Model(&entity.ReputationLog{}).
		Select("COALESCE(SUM(`change`), 0)").
		Where("user_id=? AND source_id=?", userID, sourceID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
