package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/pkg/math"
	"gorm.io/gorm"
)

// pagination converts a 1-based page into offset and limit. A missing page
// size takes the default, a too large one is cut to the maximum.
func pagination(ctx context.Context, page, pageSize int) (int, int, error) {
	if page < 0 || pageSize < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Page and page size must be positive")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if page == 0 {
		page = 1
	}

	if pageSize == 0 {
		pageSize = apiCfg.DefaultPageSize
	}

	pageSize = math.MinInt(pageSize, apiCfg.MaxPageSize)
	return (page - 1) * pageSize, pageSize, nil
}

func runeLen(s string) int {
	return len([]rune(s))
}

func checkTitle(ctx context.Context, title string) error {
	cfg := xcontext.Configs(ctx).Community
	n := runeLen(strings.TrimSpace(title))
	if n < cfg.MinTitleLength {
		return errorx.New(errorx.BadRequest, "Title too short (at least %d characters)", cfg.MinTitleLength)
	}

	if n > cfg.MaxTitleLength {
		return errorx.New(errorx.BadRequest, "Title too long (at most %d characters)", cfg.MaxTitleLength)
	}

	return nil
}

func checkQuestionBody(ctx context.Context, body string) error {
	cfg := xcontext.Configs(ctx).Community
	if runeLen(strings.TrimSpace(body)) < cfg.MinBodyLength {
		return errorx.New(errorx.BadRequest, "Body too short (at least %d characters)", cfg.MinBodyLength)
	}

	return nil
}

func checkAnswerBody(ctx context.Context, body string) error {
	cfg := xcontext.Configs(ctx).Community
	if runeLen(strings.TrimSpace(body)) < cfg.MinAnswerBodyLength {
		return errorx.New(errorx.BadRequest, "Answer too short (at least %d characters)", cfg.MinAnswerBodyLength)
	}

	return nil
}

// notFoundOrUnknown maps a repository error. Unexpected errors are logged.
func notFoundOrUnknown(ctx context.Context, err error, object string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.New(errorx.NotFound, "Not found %s", object)
	}

	xcontext.Logger(ctx).Errorf("Cannot get %s: %v", object, err)
	return errorx.Unknown
}

func commit(ctx context.Context) error {
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit the transaction: %v", err)
		return errorx.Unknown
	}

	return nil
}

func loadAuthors(
	ctx context.Context, profileRepo repository.ProfileRepository, userIDs []string,
) (map[string]model.Author, error) {
	authors := map[string]model.Author{}
	if len(userIDs) == 0 {
		return authors, nil
	}

	profiles, err := profileRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get profiles: %v", err)
		return nil, errorx.Unknown
	}

	for i := range profiles {
		authors[profiles[i].UserID] = model.ConvertAuthor(&profiles[i])
	}

	// Authors without profile are still shown by their id.
	for _, id := range userIDs {
		if _, ok := authors[id]; !ok {
			authors[id] = model.Author{UserID: id}
		}
	}

	return authors, nil
}

func loadUserVotes(
	ctx context.Context,
	voteRepo repository.VoteRepository,
	targetType entity.VoteTargetType,
	targetIDs []string,
) (map[string]int, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" || len(targetIDs) == 0 {
		return map[string]int{}, nil
	}

	votes, err := voteRepo.GetValues(ctx, userID, targetType, targetIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get votes of user: %v", err)
		return nil, errorx.Unknown
	}

	return votes, nil
}
