package repository

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, data *entity.Tag) error
	GetAll(ctx context.Context) ([]entity.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Tag, error)
	GetByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]entity.Tag, error)
	IncreaseQuestionCount(ctx context.Context, ids []string, delta int) error
	RecalculateQuestionCount(ctx context.Context) error
}

type tagRepository struct{}

func NewTagRepository() *tagRepository {
	return &tagRepository{}
}

func (r *tagRepository) Create(ctx context.Context, data *entity.Tag) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *tagRepository) GetAll(ctx context.Context) ([]entity.Tag, error) {
	var result []entity.Tag
	err := xcontext.DB(ctx).
		Order("question_count DESC").
		Order("name ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tag, error) {
	var result entity.Tag
	if err := xcontext.DB(ctx).Take(&result, "slug=?", slug).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Tag, error) {
	var result []entity.Tag
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

type questionTagRow struct {
	QuestionID string
	entity.Tag
}

func (r *tagRepository) GetByQuestionIDs(
	ctx context.Context, questionIDs []string,
) (map[string][]entity.Tag, error) {
	var rows []questionTagRow
	err := xcontext.DB(ctx).
		Table("tags").
		Select("question_tags.question_id, tags.*").
		Joins("JOIN question_tags ON question_tags.tag_id=tags.id").
		Where("question_tags.question_id IN (?)", questionIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string][]entity.Tag)
	for _, row := range rows {
		result[row.QuestionID] = append(result[row.QuestionID], row.Tag)
	}

	return result, nil
}

func (r *tagRepository) IncreaseQuestionCount(ctx context.Context, ids []string, delta int) error {
	if len(ids) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Tag{}).
		Where("id IN (?)", ids).
		Update("question_count", gorm.Expr(
			"CASE WHEN question_count + ? < 0 THEN 0 ELSE question_count + ? END", delta, delta))

	if tx.Error != nil {
		return tx.Error
	}

	if int(tx.RowsAffected) != len(ids) {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *tagRepository) RecalculateQuestionCount(ctx context.Context) error {
	return xcontext.DB(ctx).Exec(
		"UPDATE tags SET question_count = " +
			"(SELECT COUNT(*) FROM question_tags WHERE question_tags.tag_id = tags.id)",
	).Error
}
