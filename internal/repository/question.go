package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionOrder string

const (
	QuestionOrderNewest     QuestionOrder = "newest"
	QuestionOrderActive     QuestionOrder = "active"
	QuestionOrderVotes      QuestionOrder = "votes"
	QuestionOrderUnanswered QuestionOrder = "unanswered"
)

type QuestionFilter struct {
	Status     entity.QuestionStatus
	Unanswered bool
	TagID      string
	Search     string
	UserID     string

	Order  QuestionOrder
	Offset int
	Limit  int
}

type QuestionTitle struct {
	ID    string
	Title string
}

type QuestionRepository interface {
	Create(ctx context.Context, data *entity.Question) error
	GetByID(ctx context.Context, id string) (*entity.Question, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Question, error)
	GetList(ctx context.Context, filter QuestionFilter) ([]entity.Question, int64, error)
	GetRecentTitles(ctx context.Context, limit int) ([]QuestionTitle, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	IncreaseScore(ctx context.Context, id string, delta int) (int, error)
	IncreaseAnswerCount(ctx context.Context, id string, delta int) error
	IncreaseViewCount(ctx context.Context, id string, n int) error
	SetAcceptedAnswer(ctx context.Context, id string, answerID sql.NullString) error

	GetTagIDs(ctx context.Context, id string) ([]string, error)
	AddTags(ctx context.Context, id string, tagIDs []string) error
	RemoveTags(ctx context.Context, id string, tagIDs []string) error

	Count(ctx context.Context, userID string) (int64, error)
	MaxScore(ctx context.Context, userID string) (int, error)
	SumPositiveScore(ctx context.Context, userID string) (int, error)
	RecalculateCounters(ctx context.Context) error
}

type questionRepository struct{}

func NewQuestionRepository() *questionRepository {
	return &questionRepository{}
}

func (r *questionRepository) Create(ctx context.Context, data *entity.Question) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	var result entity.Question
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByIDForUpdate locks the question row until the end of the transaction.
func (r *questionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Question, error) {
	var result entity.Question
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questionRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Question, error) {
	var result []entity.Question
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questionRepository) applyFilter(tx *gorm.DB, filter QuestionFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	if filter.Unanswered {
		tx = tx.Where("answer_count=0")
	}

	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.TagID != "" {
		tx = tx.Where("id IN (SELECT question_id FROM question_tags WHERE tag_id=?)", filter.TagID)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		tx = tx.Where("(INSTR(LOWER(title), ?) > 0 OR INSTR(LOWER(body), ?) > 0)", search, search)
	}

	return tx
}

func (r *questionRepository) GetList(
	ctx context.Context, filter QuestionFilter,
) ([]entity.Question, int64, error) {
	var total int64
	err := r.applyFilter(xcontext.DB(ctx).Model(&entity.Question{}), filter).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	tx := r.applyFilter(xcontext.DB(ctx).Model(&entity.Question{}), filter)
	switch filter.Order {
	case QuestionOrderActive:
		tx = tx.Order("updated_at DESC")
	case QuestionOrderVotes:
		tx = tx.Order("score DESC").Order("created_at DESC")
	case QuestionOrderUnanswered:
		tx = tx.Order("answer_count ASC").Order("created_at DESC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var result []entity.Question
	if err := tx.Order("id ASC").Offset(filter.Offset).Limit(filter.Limit).Find(&result).Error; err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *questionRepository) GetRecentTitles(ctx context.Context, limit int) ([]QuestionTitle, error) {
	var result []QuestionTitle
	err := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Select("id, title").
		Order("created_at DESC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questionRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Question{}).
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

// Delete removes the question with everything hanging on it: answers, tag
// links and votes on the question and its answers.
func (r *questionRepository) Delete(ctx context.Context, id string) error {
	db := xcontext.DB(ctx)

	answerIDs := db.Model(&entity.Answer{}).Select("id").Where("question_id=?", id)
	if err := db.Where("target_type=? AND target_id IN (?)", entity.VoteTargetAnswer, answerIDs).
		Delete(&entity.Vote{}).Error; err != nil {
		return err
	}

	if err := db.Where("target_type=? AND target_id=?", entity.VoteTargetQuestion, id).
		Delete(&entity.Vote{}).Error; err != nil {
		return err
	}

	if err := db.Where("question_id=?", id).Delete(&entity.Answer{}).Error; err != nil {
		return err
	}

	if err := db.Where("question_id=?", id).Delete(&entity.QuestionTag{}).Error; err != nil {
		return err
	}

	tx := db.Delete(&entity.Question{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// IncreaseScore applies delta to the score and returns the new score. Votes
// don't count as activity, so updated_at is kept.
func (r *questionRepository) IncreaseScore(ctx context.Context, id string, delta int) (int, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Question{}).
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
		Model(&entity.Question{}).
		Select("score").
		Where("id=?", id).
		Scan(&score).Error
	if err != nil {
		return 0, err
	}

	return score, nil
}

func (r *questionRepository) IncreaseAnswerCount(ctx context.Context, id string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Where("id=?", id).
		Update("answer_count", gorm.Expr(
			"CASE WHEN answer_count + ? < 0 THEN 0 ELSE answer_count + ? END", delta, delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// IncreaseViewCount doesn't touch updated_at, a view is not an activity.
func (r *questionRepository) IncreaseViewCount(ctx context.Context, id string, n int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Where("id=?", id).
		UpdateColumn("view_count", gorm.Expr("view_count+?", n))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SetAcceptedAnswer keeps status consistent with accepted_answer_id.
func (r *questionRepository) SetAcceptedAnswer(
	ctx context.Context, id string, answerID sql.NullString,
) error {
	status := entity.QuestionStatusOpen
	if answerID.Valid {
		status = entity.QuestionStatusAnswered
	}

	return r.Update(ctx, id, map[string]any{
		"accepted_answer_id": answerID,
		"status":             status,
	})
}

func (r *questionRepository) GetTagIDs(ctx context.Context, id string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.QuestionTag{}).
		Where("question_id=?", id).
		Pluck("tag_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questionRepository) AddTags(ctx context.Context, id string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]entity.QuestionTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, entity.QuestionTag{QuestionID: id, TagID: tagID})
	}

	return xcontext.DB(ctx).Create(&rows).Error
}

func (r *questionRepository) RemoveTags(ctx context.Context, id string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Where("question_id=? AND tag_id IN (?)", id, tagIDs).
		Delete(&entity.QuestionTag{}).Error
}

func (r *questionRepository) Count(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *questionRepository) MaxScore(ctx context.Context, userID string) (int, error) {
	var result int
	err := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Select("COALESCE(MAX(score), 0)").
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *questionRepository) SumPositiveScore(ctx context.Context, userID string) (int, error) {
	var result int
	err := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Select("COALESCE(SUM(score), 0)").
		Where("user_id=? AND score > 0", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// RecalculateCounters rebuilds the cached answer counts and scores from their
// source rows.
func (r *questionRepository) RecalculateCounters(ctx context.Context) error {
	return xcontext.DB(ctx).Exec(
		"UPDATE questions SET "+
			"answer_count = (SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id), "+
			"score = COALESCE((SELECT SUM(votes.value) FROM votes "+
			"WHERE votes.target_type = ? AND votes.target_id = questions.id), 0)",
		entity.VoteTargetQuestion,
	).Error
}
