package domain

import (
	"context"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/internal/domain/vote"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/pkg/enum"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/xcontext"
)

type VoteDomain interface {
	Cast(context.Context, *model.CastVoteRequest) (*model.CastVoteResponse, error)
}

type voteDomain struct {
	voteEngine   *vote.Engine
	badgeManager *badge.Manager
	publisher    pubsub.Publisher
}

func NewVoteDomain(
	voteEngine *vote.Engine,
	badgeManager *badge.Manager,
	publisher pubsub.Publisher,
) *voteDomain {
	return &voteDomain{
		voteEngine:   voteEngine,
		badgeManager: badgeManager,
		publisher:    publisher,
	}
}

func (d *voteDomain) Cast(
	ctx context.Context, req *model.CastVoteRequest,
) (*model.CastVoteResponse, error) {
	targetType, err := enum.ToEnum[entity.VoteTargetType](req.TargetType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid target type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid target type")
	}

	if req.TargetID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty target id")
	}

	voterID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	result, err := d.voteEngine.Cast(ctx, voterID, vote.Target{Type: targetType, ID: req.TargetID}, req.Value)
	if err != nil {
		return nil, err
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	d.badgeManager.TryScanAndGive(ctx, voterID, result.OwnerID)
	common.PublishEvent(ctx, d.publisher, common.TopicVoteCast, req.TargetID, map[string]any{
		"targetType": targetType,
		"targetId":   req.TargetID,
		"userId":     voterID,
		"userVote":   result.UserVote,
		"newScore":   result.NewScore,
	})

	return &model.CastVoteResponse{NewScore: result.NewScore, UserVote: result.UserVote}, nil
}
