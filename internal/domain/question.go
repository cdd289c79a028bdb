package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/internal/domain/guardrail"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionDomain interface {
	GetList(context.Context, *model.GetQuestionsRequest) (*model.GetQuestionsResponse, error)
	Get(context.Context, *model.GetQuestionRequest) (*model.GetQuestionResponse, error)
	Create(context.Context, *model.CreateQuestionRequest) (*model.CreateQuestionResponse, error)
	Update(context.Context, *model.UpdateQuestionRequest) (*model.UpdateQuestionResponse, error)
	Delete(context.Context, *model.DeleteQuestionRequest) (*model.DeleteQuestionResponse, error)
	View(context.Context, *model.ViewQuestionRequest) (*model.ViewQuestionResponse, error)
}

type questionDomain struct {
	questionRepo    repository.QuestionRepository
	tagRepo         repository.TagRepository
	presenter       *presenter
	badgeManager    *badge.Manager
	profanityFilter *guardrail.ProfanityFilter
	viewCounter     ViewCounter
	publisher       pubsub.Publisher
}

func NewQuestionDomain(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	profileRepo repository.ProfileRepository,
	voteRepo repository.VoteRepository,
	badgeManager *badge.Manager,
	profanityFilter *guardrail.ProfanityFilter,
	viewCounter ViewCounter,
	publisher pubsub.Publisher,
) *questionDomain {
	return &questionDomain{
		questionRepo:    questionRepo,
		tagRepo:         tagRepo,
		presenter:       newPresenter(profileRepo, tagRepo, voteRepo, answerRepo),
		badgeManager:    badgeManager,
		profanityFilter: profanityFilter,
		viewCounter:     viewCounter,
		publisher:       publisher,
	}
}

func (d *questionDomain) GetList(
	ctx context.Context, req *model.GetQuestionsRequest,
) (*model.GetQuestionsResponse, error) {
	offset, limit, err := pagination(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	filter := repository.QuestionFilter{
		Search: req.Search,
		Offset: offset,
		Limit:  limit,
	}

	switch req.Filter {
	case "", "all":
	case "open":
		filter.Status = entity.QuestionStatusOpen
	case "answered":
		filter.Status = entity.QuestionStatusAnswered
	case "unanswered":
		filter.Unanswered = true
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid filter %s", req.Filter)
	}

	switch repository.QuestionOrder(req.Sort) {
	case "", repository.QuestionOrderNewest:
		filter.Order = repository.QuestionOrderNewest
	case repository.QuestionOrderActive, repository.QuestionOrderVotes:
		filter.Order = repository.QuestionOrder(req.Sort)
	case repository.QuestionOrderUnanswered:
		filter.Order = repository.QuestionOrderUnanswered
		filter.Unanswered = true
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid sort %s", req.Sort)
	}

	if req.Tag != "" {
		tag, err := d.tagRepo.GetBySlug(ctx, req.Tag)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// An unknown tag has no question.
				return &model.GetQuestionsResponse{Questions: []model.Question{}}, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot get tag: %v", err)
			return nil, errorx.Unknown
		}

		filter.TagID = tag.ID
	}

	questions, total, err := d.questionRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get question list: %v", err)
		return nil, errorx.Unknown
	}

	clientQuestions, err := d.presenter.questions(ctx, questions)
	if err != nil {
		return nil, err
	}

	return &model.GetQuestionsResponse{
		Questions:  clientQuestions,
		TotalCount: total,
		HasMore:    int64(offset+len(questions)) < total,
	}, nil
}

func (d *questionDomain) Get(
	ctx context.Context, req *model.GetQuestionRequest,
) (*model.GetQuestionResponse, error) {
	question, err := d.questionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	return d.presenter.question(ctx, question, req.IncludeAnswers)
}

func (d *questionDomain) Create(
	ctx context.Context, req *model.CreateQuestionRequest,
) (*model.CreateQuestionResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if result := d.profanityFilter.Check(req.Title, req.Body); result.Flagged {
		return nil, errorx.New(errorx.ContentFlagged, result.Reason)
	}

	if err := checkTitle(ctx, req.Title); err != nil {
		return nil, err
	}

	if err := checkQuestionBody(ctx, req.Body); err != nil {
		return nil, err
	}

	tagIDs := common.Dedup(req.TagIDs)
	if err := d.checkTags(ctx, tagIDs); err != nil {
		return nil, err
	}

	question := &entity.Question{
		Base:             entity.Base{ID: uuid.NewString()},
		UserID:           userID,
		Title:            strings.TrimSpace(req.Title),
		Body:             strings.TrimSpace(req.Body),
		AIContextSummary: req.AIContextSummary,
		Status:           entity.QuestionStatusOpen,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.questionRepo.Create(ctx, question); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create question: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questionRepo.AddTags(ctx, question.ID, tagIDs); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add tags to question: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tagRepo.IncreaseQuestionCount(ctx, tagIDs, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase question count of tags: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	d.badgeManager.TryScanAndGive(ctx, userID)
	common.PublishEvent(ctx, d.publisher, common.TopicQuestionCreated, question.ID, map[string]any{
		"questionId": question.ID,
		"userId":     userID,
		"tagIds":     tagIDs,
	})

	return d.presenter.question(ctx, question, false)
}

// checkTags validates the number of tags and their existence.
func (d *questionDomain) checkTags(ctx context.Context, tagIDs []string) error {
	maxTags := xcontext.Configs(ctx).Community.MaxTags
	if len(tagIDs) > maxTags {
		return errorx.New(errorx.BadRequest, "Too many tags (at most %d)", maxTags)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	tags, err := d.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
		return errorx.Unknown
	}

	if len(tags) != len(tagIDs) {
		return errorx.New(errorx.BadRequest, "Some tags don't exist")
	}

	return nil
}

func (d *questionDomain) getOwnQuestion(ctx context.Context, id string) (*entity.Question, error) {
	question, err := d.questionRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	if question.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can change the question")
	}

	return question, nil
}

func (d *questionDomain) Update(
	ctx context.Context, req *model.UpdateQuestionRequest,
) (*model.UpdateQuestionResponse, error) {
	texts := []string{}
	if req.Title != nil {
		texts = append(texts, *req.Title)
	}

	if req.Body != nil {
		texts = append(texts, *req.Body)
	}

	if result := d.profanityFilter.Check(texts...); result.Flagged {
		return nil, errorx.New(errorx.ContentFlagged, result.Reason)
	}

	updates := map[string]any{"updated_at": time.Now()}
	if req.Title != nil {
		if err := checkTitle(ctx, *req.Title); err != nil {
			return nil, err
		}

		updates["title"] = strings.TrimSpace(*req.Title)
	}

	if req.Body != nil {
		if err := checkQuestionBody(ctx, *req.Body); err != nil {
			return nil, err
		}

		updates["body"] = strings.TrimSpace(*req.Body)
	}

	var newTagIDs []string
	if req.TagIDs != nil {
		newTagIDs = common.Dedup(*req.TagIDs)
		if err := d.checkTags(ctx, newTagIDs); err != nil {
			return nil, err
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.getOwnQuestion(ctx, req.ID); err != nil {
		return nil, err
	}

	if req.TagIDs != nil {
		oldTagIDs, err := d.questionRepo.GetTagIDs(ctx, req.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get tags of question: %v", err)
			return nil, errorx.Unknown
		}

		added := common.Diff(newTagIDs, oldTagIDs)
		removed := common.Diff(oldTagIDs, newTagIDs)

		if err := d.questionRepo.RemoveTags(ctx, req.ID, removed); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove tags of question: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.tagRepo.IncreaseQuestionCount(ctx, removed, -1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot decrease question count of tags: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.questionRepo.AddTags(ctx, req.ID, added); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot add tags to question: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.tagRepo.IncreaseQuestionCount(ctx, added, 1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase question count of tags: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.questionRepo.Update(ctx, req.ID, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update question: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	question, err := d.questionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	return d.presenter.question(ctx, question, false)
}

// Delete removes the question and everything hanging on it. The reputation
// earned by its votes and acceptance is kept.
func (d *questionDomain) Delete(
	ctx context.Context, req *model.DeleteQuestionRequest,
) (*model.DeleteQuestionResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.getOwnQuestion(ctx, req.ID); err != nil {
		return nil, err
	}

	tagIDs, err := d.questionRepo.GetTagIDs(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags of question: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tagRepo.IncreaseQuestionCount(ctx, tagIDs, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease question count of tags: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questionRepo.Delete(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete question: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return &model.DeleteQuestionResponse{}, nil
}

func (d *questionDomain) View(
	ctx context.Context, req *model.ViewQuestionRequest,
) (*model.ViewQuestionResponse, error) {
	if _, err := d.questionRepo.GetByID(ctx, req.ID); err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	if err := d.viewCounter.Increase(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot increase view count of question %s: %v", req.ID, err)
	}

	return &model.ViewQuestionResponse{}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{Valid: s != "", String: s}
}
