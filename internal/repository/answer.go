package repository

import (
	"context"
	"errors"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	Create(ctx context.Context, data *entity.Answer) error
	GetByID(ctx context.Context, id string) (*entity.Answer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Answer, error)
	GetListByQuestionID(ctx context.Context, questionID string) ([]entity.Answer, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	IncreaseScore(ctx context.Context, id string, delta int) (int, error)
	SetAccepted(ctx context.Context, id string, accepted bool) error

	Count(ctx context.Context, userID string, onlyAccepted bool) (int64, error)
	MaxScore(ctx context.Context, userID string) (int, error)
	SumPositiveScore(ctx context.Context, userID string) (int, error)
	RecalculateScore(ctx context.Context) error
}

type answerRepository struct{}

func NewAnswerRepository() *answerRepository {
	return &answerRepository{}
}

func (r *answerRepository) Create(ctx context.Context, data *entity.Answer) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *answerRepository) GetByID(ctx context.Context, id string) (*entity.Answer, error) {
	var result entity.Answer
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *answerRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Answer, error) {
	var result entity.Answer
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetListByQuestionID returns the accepted answer first, then the others by
// score, the oldest first when scores are equal.
func (r *answerRepository) GetListByQuestionID(ctx context.Context, questionID string) ([]entity.Answer, error) {
	var result []entity.Answer
	err := xcontext.DB(ctx).
		Where("question_id=?", questionID).
		Order("is_accepted DESC").
		Order("score DESC").
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *answerRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Answer{}).
		Where("id=?", id).
		Updates(updates)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes the answer and the votes on it.
func (r *answerRepository) Delete(ctx context.Context, id string) error {
	err := xcontext.DB(ctx).
		Where("target_type=? AND target_id=?", entity.VoteTargetAnswer, id).
		Delete(&entity.Vote{}).Error
	if err != nil {
		return err
	}

	tx := xcontext.DB(ctx).Delete(&entity.Answer{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *answerRepository) IncreaseScore(ctx context.Context, id string, delta int) (int, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Answer{}).
		Where("id=?", id).
		UpdateColumn("score", gorm.Expr("score+?", delta))

	if tx.Error != nil {
		return 0, tx.Error
	}

	if tx.RowsAffected > 1 {
		return 0, errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var score int
	err := xcontext.DB(ctx).
		Model(&entity.Answer{}).
		Select("score").
		Where("id=?", id).
		Scan(&score).Error
	if err != nil {
		return 0, err
	}

	return score, nil
}

func (r *answerRepository) SetAccepted(ctx context.Context, id string, accepted bool) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Answer{}).
		Where("id=?", id).
		UpdateColumn("is_accepted", accepted)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *answerRepository) Count(ctx context.Context, userID string, onlyAccepted bool) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Answer{}).Where("user_id=?", userID)
	if onlyAccepted {
		tx = tx.Where("is_accepted=?", true)
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *answerRepository) MaxScore(ctx context.Context, userID string) (int, error) {
	var result int
	err := xcontext.DB(ctx).
		Model(&entity.Answer{}).
		Select("COALESCE(MAX(score), 0)").
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *answerRepository) SumPositiveScore(ctx context.Context, userID string) (int, error) {
	var result int
	err := xcontext.DB(ctx).
		Model(&entity.Answer{}).
		Select("COALESCE(SUM(score), 0)").
		Where("user_id=? AND score > 0", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *answerRepository) RecalculateScore(ctx context.Context) error {
	return xcontext.DB(ctx).Exec(
		"UPDATE answers SET score = COALESCE((SELECT SUM(votes.value) FROM votes "+
			"WHERE votes.target_type = ? AND votes.target_id = answers.id), 0)",
		entity.VoteTargetAnswer,
	).Error
}
