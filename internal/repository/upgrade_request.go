package repository

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpgradeRequestRepository interface {
	Create(ctx context.Context, data *entity.UpgradeRequest) error
	GetByID(ctx context.Context, id string) (*entity.UpgradeRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.UpgradeRequest, error)
	GetListByRequesterID(ctx context.Context, requesterID string) ([]entity.UpgradeRequest, error)
	GetListByStatus(ctx context.Context, status entity.UpgradeRequestStatus) ([]entity.UpgradeRequest, error)
	UpdateStatus(
		ctx context.Context, id string, from, to entity.UpgradeRequestStatus, updates map[string]any,
	) error
}

type upgradeRequestRepository struct{}

func NewUpgradeRequestRepository() *upgradeRequestRepository {
	return &upgradeRequestRepository{}
}

func (r *upgradeRequestRepository) Create(ctx context.Context, data *entity.UpgradeRequest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *upgradeRequestRepository) GetByID(ctx context.Context, id string) (*entity.UpgradeRequest, error) {
	var result entity.UpgradeRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *upgradeRequestRepository) GetByIDForUpdate(
	ctx context.Context, id string,
) (*entity.UpgradeRequest, error) {
	var result entity.UpgradeRequest
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *upgradeRequestRepository) GetListByRequesterID(
	ctx context.Context, requesterID string,
) ([]entity.UpgradeRequest, error) {
	var result []entity.UpgradeRequest
	err := xcontext.DB(ctx).
		Where("requester_id=?", requesterID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *upgradeRequestRepository) GetListByStatus(
	ctx context.Context, status entity.UpgradeRequestStatus,
) ([]entity.UpgradeRequest, error) {
	var result []entity.UpgradeRequest
	err := xcontext.DB(ctx).
		Where("status=?", status).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus moves the request from a status to another one. It returns
// gorm.ErrRecordNotFound if the request is not in the from status anymore.
func (r *upgradeRequestRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.UpgradeRequestStatus, updates map[string]any,
) error {
	values := map[string]any{"status": to}
	for k, v := range updates {
		values[k] = v
	}

	tx := xcontext.DB(ctx).
		Model(&entity.UpgradeRequest{}).
		Where("id=? AND status=?", id, from).
		Updates(values)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
