package domain

import (
	"context"
	"errors"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetStats(context.Context, *model.GetUserStatsRequest) (*model.GetUserStatsResponse, error)
	GetReputationHistory(context.Context, *model.GetReputationHistoryRequest) (*model.GetReputationHistoryResponse, error)
	GetBadges(context.Context, *model.GetBadgesRequest) (*model.GetBadgesResponse, error)

	// EnsureProfile creates the profile of a user on the first sign-in.
	EnsureProfile(ctx context.Context, userID, displayName string) error
}

type userDomain struct {
	profileRepo       repository.ProfileRepository
	questionRepo      repository.QuestionRepository
	answerRepo        repository.AnswerRepository
	reputationLogRepo repository.ReputationLogRepository
	badgeRepo         repository.BadgeRepository
	userBadgeRepo     repository.UserBadgeRepository
}

func NewUserDomain(
	profileRepo repository.ProfileRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	reputationLogRepo repository.ReputationLogRepository,
	badgeRepo repository.BadgeRepository,
	userBadgeRepo repository.UserBadgeRepository,
) *userDomain {
	return &userDomain{
		profileRepo:       profileRepo,
		questionRepo:      questionRepo,
		answerRepo:        answerRepo,
		reputationLogRepo: reputationLogRepo,
		badgeRepo:         badgeRepo,
		userBadgeRepo:     userBadgeRepo,
	}
}

func (d *userDomain) EnsureProfile(ctx context.Context, userID, displayName string) error {
	err := d.profileRepo.CreateIfNotExists(ctx, &entity.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Role:        entity.RoleMember,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create profile: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	profile, err := d.profileRepo.Get(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "profile")
	}

	author := model.ConvertAuthor(profile)
	return &author, nil
}

func (d *userDomain) GetStats(
	ctx context.Context, req *model.GetUserStatsRequest,
) (*model.GetUserStatsResponse, error) {
	reputation := 0
	profile, err := d.profileRepo.Get(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get profile: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		reputation = profile.Reputation
	}

	questionCount, err := d.questionRepo.Count(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count questions: %v", err)
		return nil, errorx.Unknown
	}

	answerCount, err := d.answerRepo.Count(ctx, req.UserID, false)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count answers: %v", err)
		return nil, errorx.Unknown
	}

	acceptedCount, err := d.answerRepo.Count(ctx, req.UserID, true)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count accepted answers: %v", err)
		return nil, errorx.Unknown
	}

	badges, err := d.userBadgeRepo.GetListByUserID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badges of user: %v", err)
		return nil, errorx.Unknown
	}

	clientBadges := []model.AwardedBadge{}
	for i := range badges {
		clientBadges = append(clientBadges, model.ConvertAwardedBadge(&badges[i]))
	}

	return &model.GetUserStatsResponse{
		QuestionCount:       questionCount,
		AnswerCount:         answerCount,
		AcceptedAnswerCount: acceptedCount,
		Reputation:          reputation,
		Badges:              clientBadges,
	}, nil
}

func (d *userDomain) GetReputationHistory(
	ctx context.Context, req *model.GetReputationHistoryRequest,
) (*model.GetReputationHistoryResponse, error) {
	offset, limit, err := pagination(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	logs, err := d.reputationLogRepo.GetListByUserID(ctx, req.UserID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reputation logs: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.ReputationEntry{}
	for i := range logs {
		entries = append(entries, model.ConvertReputationEntry(&logs[i]))
	}

	return &model.GetReputationHistoryResponse{Entries: entries}, nil
}

func (d *userDomain) GetBadges(ctx context.Context, req *model.GetBadgesRequest) (*model.GetBadgesResponse, error) {
	badges, err := d.badgeRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all badges: %v", err)
		return nil, errorx.Unknown
	}

	clientBadges := []model.Badge{}
	for i := range badges {
		clientBadges = append(clientBadges, model.ConvertBadge(&badges[i]))
	}

	return &model.GetBadgesResponse{Badges: clientBadges}, nil
}
