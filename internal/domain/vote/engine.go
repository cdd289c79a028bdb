package vote

import (
	"context"
	"errors"

	"github.com/abi-lab/backend/internal/domain/reputation"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Target struct {
	Type entity.VoteTargetType
	ID   string
}

type Result struct {
	// NewScore is the score of the target after the vote.
	NewScore int

	// UserVote is the vote of the voter after the cast, 0 means no vote.
	UserVote int

	// OwnerID is the author of the target.
	OwnerID string
}

// Engine is the vote state machine. A cast moves the vote of a user on a
// target between none, +1 and -1, and patches the target score and the
// reputation ledger by exactly the difference.
//
// Engine must be called inside a transaction, it doesn't commit anything.
type Engine struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
	ledger       *reputation.Ledger
}

func NewEngine(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	voteRepo repository.VoteRepository,
	ledger *reputation.Ledger,
) *Engine {
	return &Engine{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
		ledger:       ledger,
	}
}

// Cast applies a vote request. Casting the current value again removes the
// vote, value 0 always removes it.
func (e *Engine) Cast(ctx context.Context, voterID string, target Target, value int) (*Result, error) {
	if value < -1 || value > 1 {
		return nil, errorx.New(errorx.BadRequest, "Vote value must be -1, 0 or 1")
	}

	ownerID, err := e.lockTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	if ownerID == voterID {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot vote on your own %s", target.Type)
	}

	oldValue := 0
	current, err := e.voteRepo.Get(ctx, voterID, target.Type, target.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get vote: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		oldValue = current.Value
	}

	newValue := value
	if value == oldValue {
		newValue = 0
	}

	source := reputation.Source{Type: string(target.Type), ID: target.ID}
	scoreDelta := newValue - oldValue

	switch {
	case oldValue == 0 && newValue == 0:
		// Nothing to undo.

	case oldValue == 0:
		err := e.voteRepo.Create(ctx, &entity.Vote{
			Base:       entity.Base{ID: uuid.NewString()},
			UserID:     voterID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Value:      newValue,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create vote: %v", err)
			return nil, errorx.Unknown
		}

		if err := e.award(ctx, voterID, ownerID, target.Type, newValue, source); err != nil {
			return nil, err
		}

	case newValue == 0:
		if err := e.voteRepo.Delete(ctx, current.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete vote: %v", err)
			return nil, errorx.Unknown
		}

		if err := e.reverse(ctx, voterID, ownerID, target.Type, oldValue, source); err != nil {
			return nil, err
		}

	default:
		// Switch direction, the score moves by 2 in one step.
		if err := e.voteRepo.UpdateValue(ctx, current.ID, newValue); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update vote: %v", err)
			return nil, errorx.Unknown
		}

		if err := e.reverse(ctx, voterID, ownerID, target.Type, oldValue, source); err != nil {
			return nil, err
		}

		if err := e.award(ctx, voterID, ownerID, target.Type, newValue, source); err != nil {
			return nil, err
		}
	}

	newScore, err := e.increaseScore(ctx, target, scoreDelta)
	if err != nil {
		return nil, err
	}

	return &Result{NewScore: newScore, UserVote: newValue, OwnerID: ownerID}, nil
}

// lockTarget locks the target row so concurrent casts on the same target are
// serialized, and returns its owner.
func (e *Engine) lockTarget(ctx context.Context, target Target) (string, error) {
	var ownerID string
	var err error
	switch target.Type {
	case entity.VoteTargetQuestion:
		var question *entity.Question
		if question, err = e.questionRepo.GetByIDForUpdate(ctx, target.ID); err == nil {
			ownerID = question.UserID
		}

	case entity.VoteTargetAnswer:
		var answer *entity.Answer
		if answer, err = e.answerRepo.GetByIDForUpdate(ctx, target.ID); err == nil {
			ownerID = answer.UserID
		}

	default:
		return "", errorx.New(errorx.BadRequest, "Invalid target type")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errorx.New(errorx.NotFound, "Not found %s", target.Type)
		}

		xcontext.Logger(ctx).Errorf("Cannot get vote target: %v", err)
		return "", errorx.Unknown
	}

	return ownerID, nil
}

func (e *Engine) increaseScore(ctx context.Context, target Target, delta int) (int, error) {
	var score int
	var err error
	if target.Type == entity.VoteTargetQuestion {
		score, err = e.questionRepo.IncreaseScore(ctx, target.ID, delta)
	} else {
		score, err = e.answerRepo.IncreaseScore(ctx, target.ID, delta)
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update score of %s: %v", target.Type, err)
		return 0, errorx.Unknown
	}

	return score, nil
}

func (e *Engine) award(
	ctx context.Context,
	voterID, ownerID string,
	targetType entity.VoteTargetType,
	value int,
	source reputation.Source,
) error {
	if err := e.ledger.Award(ctx, ownerID, ownerReason(targetType, value), source); err != nil {
		return err
	}

	if value < 0 {
		return e.ledger.Award(ctx, voterID, reputation.DownvoteCast, source)
	}

	return nil
}

func (e *Engine) reverse(
	ctx context.Context,
	voterID, ownerID string,
	targetType entity.VoteTargetType,
	value int,
	source reputation.Source,
) error {
	if err := e.ledger.Reverse(ctx, ownerID, ownerReason(targetType, value), source); err != nil {
		return err
	}

	if value < 0 {
		return e.ledger.Reverse(ctx, voterID, reputation.DownvoteCast, source)
	}

	return nil
}

func ownerReason(targetType entity.VoteTargetType, value int) reputation.Reason {
	if targetType == entity.VoteTargetQuestion {
		if value > 0 {
			return reputation.QuestionUpvoted
		}
		return reputation.QuestionDownvoted
	}

	if value > 0 {
		return reputation.AnswerUpvoted
	}
	return reputation.AnswerDownvoted
}
