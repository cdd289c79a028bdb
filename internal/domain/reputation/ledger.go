package reputation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type Reason string

const (
	QuestionUpvoted   Reason = "question_upvoted"
	QuestionDownvoted Reason = "question_downvoted"
	AnswerUpvoted     Reason = "answer_upvoted"
	AnswerDownvoted   Reason = "answer_downvoted"
	AnswerAccepted    Reason = "answer_accepted"
	AcceptedAnswer    Reason = "accepted_answer"
	DownvoteCast      Reason = "downvote_cast"

	reversedSuffix = "_reversed"
)

var deltas = map[Reason]int{
	QuestionUpvoted:   5,
	QuestionDownvoted: -2,
	AnswerUpvoted:     10,
	AnswerDownvoted:   -2,
	AnswerAccepted:    15,
	AcceptedAnswer:    2,
	DownvoteCast:      -1,
}

// Delta returns the reputation change of a base reason.
func Delta(reason Reason) (int, bool) {
	delta, ok := deltas[reason]
	return delta, ok
}

// Reversed returns the reason of the entry which undoes reason.
func (r Reason) Reversed() Reason {
	return r + reversedSuffix
}

// Source is the question or answer which caused a reputation change.
type Source struct {
	Type string
	ID   string
}

// Ledger records every reputation change as an append-only entry and applies
// it to the cached reputation of the profile. It always works inside the
// transaction of the caller.
type Ledger struct {
	profileRepo       repository.ProfileRepository
	reputationLogRepo repository.ReputationLogRepository
}

func NewLedger(
	profileRepo repository.ProfileRepository,
	reputationLogRepo repository.ReputationLogRepository,
) *Ledger {
	return &Ledger{
		profileRepo:       profileRepo,
		reputationLogRepo: reputationLogRepo,
	}
}

func (l *Ledger) Award(ctx context.Context, userID string, reason Reason, source Source) error {
	delta, ok := Delta(reason)
	if !ok {
		xcontext.Logger(ctx).Errorf("Unknown reputation reason %s", reason)
		return errorx.New(errorx.Internal, "Unknown reputation reason")
	}

	return l.apply(ctx, userID, delta, reason, source)
}

// Reverse undoes an award of reason. The entry has the opposite change, so
// the entries of the same source always sum to zero.
func (l *Ledger) Reverse(ctx context.Context, userID string, reason Reason, source Source) error {
	delta, ok := Delta(reason)
	if !ok {
		xcontext.Logger(ctx).Errorf("Unknown reputation reason %s", reason)
		return errorx.New(errorx.Internal, "Unknown reputation reason")
	}

	return l.apply(ctx, userID, -delta, reason.Reversed(), source)
}

func (l *Ledger) apply(ctx context.Context, userID string, delta int, reason Reason, source Source) error {
	err := l.reputationLogRepo.Create(ctx, &entity.ReputationLog{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.Snowflake(ctx).Generate().Int64()},
		UserID:        userID,
		Change:        delta,
		Reason:        string(reason),
		SourceType:    sql.NullString{Valid: source.Type != "", String: source.Type},
		SourceID:      sql.NullString{Valid: source.ID != "", String: source.ID},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reputation log: %v", err)
		return errorx.Unknown
	}

	err = l.profileRepo.IncreaseReputation(ctx, userID, delta)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The profile is normally created on the first sign-in, but the ledger
		// must not lose a change because of a missing profile.
		if err = l.profileRepo.CreateIfNotExists(ctx, &entity.Profile{
			UserID: userID,
			Role:   entity.RoleMember,
		}); err == nil {
			err = l.profileRepo.IncreaseReputation(ctx, userID, delta)
		}
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update reputation of %s: %v", userID, err)
		return errorx.Unknown
	}

	return nil
}
