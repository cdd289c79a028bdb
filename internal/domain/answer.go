package domain

import (
	"context"
	"database/sql"
	"strings"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/internal/domain/guardrail"
	"github.com/abi-lab/backend/internal/domain/reputation"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type AnswerDomain interface {
	Create(context.Context, *model.CreateAnswerRequest) (*model.CreateAnswerResponse, error)
	Update(context.Context, *model.UpdateAnswerRequest) (*model.UpdateAnswerResponse, error)
	Delete(context.Context, *model.DeleteAnswerRequest) (*model.DeleteAnswerResponse, error)
	Accept(context.Context, *model.AcceptAnswerRequest) (*model.AcceptAnswerResponse, error)
}

type answerDomain struct {
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	ledger          *reputation.Ledger
	presenter       *presenter
	badgeManager    *badge.Manager
	profanityFilter *guardrail.ProfanityFilter
	publisher       pubsub.Publisher
}

func NewAnswerDomain(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	profileRepo repository.ProfileRepository,
	voteRepo repository.VoteRepository,
	ledger *reputation.Ledger,
	badgeManager *badge.Manager,
	profanityFilter *guardrail.ProfanityFilter,
	publisher pubsub.Publisher,
) *answerDomain {
	return &answerDomain{
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		ledger:          ledger,
		presenter:       newPresenter(profileRepo, tagRepo, voteRepo, answerRepo),
		badgeManager:    badgeManager,
		profanityFilter: profanityFilter,
		publisher:       publisher,
	}
}

func (d *answerDomain) Create(
	ctx context.Context, req *model.CreateAnswerRequest,
) (*model.CreateAnswerResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if result := d.profanityFilter.Check(req.Body); result.Flagged {
		return nil, errorx.New(errorx.ContentFlagged, result.Reason)
	}

	if err := checkAnswerBody(ctx, req.Body); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	question, err := d.questionRepo.GetByIDForUpdate(ctx, req.QuestionID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	answer := &entity.Answer{
		Base:       entity.Base{ID: uuid.NewString()},
		QuestionID: question.ID,
		UserID:     userID,
		Body:       strings.TrimSpace(req.Body),
	}

	if err := d.answerRepo.Create(ctx, answer); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create answer: %v", err)
		return nil, errorx.Unknown
	}

	// A new answer is an activity of the question.
	if err := d.questionRepo.IncreaseAnswerCount(ctx, question.ID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase answer count: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	d.badgeManager.TryScanAndGive(ctx, userID)
	common.PublishEvent(ctx, d.publisher, common.TopicAnswerCreated, answer.ID, map[string]any{
		"answerId":   answer.ID,
		"questionId": question.ID,
		"userId":     userID,
	})

	return d.presenter.answer(ctx, answer)
}

func (d *answerDomain) getOwnAnswer(ctx context.Context, id string) (*entity.Answer, error) {
	answer, err := d.answerRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "answer")
	}

	if answer.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can change the answer")
	}

	return answer, nil
}

func (d *answerDomain) Update(
	ctx context.Context, req *model.UpdateAnswerRequest,
) (*model.UpdateAnswerResponse, error) {
	if result := d.profanityFilter.Check(req.Body); result.Flagged {
		return nil, errorx.New(errorx.ContentFlagged, result.Reason)
	}

	if err := checkAnswerBody(ctx, req.Body); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.getOwnAnswer(ctx, req.ID); err != nil {
		return nil, err
	}

	if err := d.answerRepo.Update(ctx, req.ID, map[string]any{"body": strings.TrimSpace(req.Body)}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update answer: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	answer, err := d.answerRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "answer")
	}

	return d.presenter.answer(ctx, answer)
}

func (d *answerDomain) Delete(
	ctx context.Context, req *model.DeleteAnswerRequest,
) (*model.DeleteAnswerResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	answer, err := d.getOwnAnswer(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	question, err := d.questionRepo.GetByIDForUpdate(ctx, answer.QuestionID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	if answer.IsAccepted {
		if err := d.questionRepo.SetAcceptedAnswer(ctx, question.ID, sql.NullString{}); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot clear accepted answer: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.reverseAcceptance(ctx, question, answer); err != nil {
			return nil, err
		}
	}

	if err := d.answerRepo.Delete(ctx, answer.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete answer: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questionRepo.IncreaseAnswerCount(ctx, question.ID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease answer count: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return &model.DeleteAnswerResponse{}, nil
}

// Accept marks the answer as the accepted one of its question. Accepting the
// current accepted answer again changes nothing.
func (d *answerDomain) Accept(
	ctx context.Context, req *model.AcceptAnswerRequest,
) (*model.AcceptAnswerResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	question, err := d.questionRepo.GetByIDForUpdate(ctx, req.QuestionID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	if question.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author of the question can accept an answer")
	}

	answer, err := d.answerRepo.GetByID(ctx, req.AnswerID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "answer")
	}

	if answer.QuestionID != question.ID {
		return nil, errorx.New(errorx.BadRequest, "The answer doesn't belong to the question")
	}

	changed := question.AcceptedAnswerID.String != answer.ID
	if changed {
		if question.AcceptedAnswerID.Valid {
			previous, err := d.answerRepo.GetByID(ctx, question.AcceptedAnswerID.String)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get the accepted answer: %v", err)
				return nil, errorx.Unknown
			}

			if err := d.answerRepo.SetAccepted(ctx, previous.ID, false); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unaccept answer: %v", err)
				return nil, errorx.Unknown
			}

			if err := d.reverseAcceptance(ctx, question, previous); err != nil {
				return nil, err
			}
		}

		if err := d.answerRepo.SetAccepted(ctx, answer.ID, true); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot accept answer: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.questionRepo.SetAcceptedAnswer(ctx, question.ID, nullString(answer.ID)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set accepted answer: %v", err)
			return nil, errorx.Unknown
		}

		if answer.UserID != question.UserID {
			source := reputation.Source{Type: string(entity.VoteTargetAnswer), ID: answer.ID}
			if err := d.ledger.Award(ctx, answer.UserID, reputation.AnswerAccepted, source); err != nil {
				return nil, err
			}

			if err := d.ledger.Award(ctx, question.UserID, reputation.AcceptedAnswer, source); err != nil {
				return nil, err
			}
		}
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	if changed {
		d.badgeManager.TryScanAndGive(ctx, answer.UserID, question.UserID)
		common.PublishEvent(ctx, d.publisher, common.TopicAnswerAccepted, answer.ID, map[string]any{
			"answerId":   answer.ID,
			"questionId": question.ID,
			"userId":     answer.UserID,
		})
	}

	question, err = d.questionRepo.GetByID(ctx, question.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "question")
	}

	clientQuestion, err := d.presenter.question(ctx, question, false)
	if err != nil {
		return nil, err
	}

	return &model.AcceptAnswerResponse{Question: *clientQuestion}, nil
}

// reverseAcceptance takes back the reputation given when the answer was
// accepted. Accepting an own answer gives nothing, so nothing is reversed.
func (d *answerDomain) reverseAcceptance(
	ctx context.Context, question *entity.Question, answer *entity.Answer,
) error {
	if answer.UserID == question.UserID {
		return nil
	}

	source := reputation.Source{Type: string(entity.VoteTargetAnswer), ID: answer.ID}
	if err := d.ledger.Reverse(ctx, answer.UserID, reputation.AnswerAccepted, source); err != nil {
		return err
	}

	return d.ledger.Reverse(ctx, question.UserID, reputation.AcceptedAnswer, source)
}
