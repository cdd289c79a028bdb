package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/abi-lab/backend/internal/domain/guardrail"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
)

type GuardrailDomain interface {
	Check(context.Context, *model.CheckGuardrailsRequest) (*model.CheckGuardrailsResponse, error)
	GetSimilar(context.Context, *model.GetSimilarQuestionsRequest) (*model.GetSimilarQuestionsResponse, error)
}

type guardrailDomain struct {
	questionRepo    repository.QuestionRepository
	profanityFilter *guardrail.ProfanityFilter
	scorer          *guardrail.SimilarityScorer
	debouncer       *guardrail.Debouncer
}

func NewGuardrailDomain(
	ctx context.Context,
	questionRepo repository.QuestionRepository,
	profanityFilter *guardrail.ProfanityFilter,
) *guardrailDomain {
	return &guardrailDomain{
		questionRepo:    questionRepo,
		profanityFilter: profanityFilter,
		scorer:          guardrail.NewSimilarityScorer(),
		debouncer:       guardrail.NewDebouncer(xcontext.Configs(ctx).Community.SimilarDebounce),
	}
}

func (d *guardrailDomain) Check(
	ctx context.Context, req *model.CheckGuardrailsRequest,
) (*model.CheckGuardrailsResponse, error) {
	cfg := xcontext.Configs(ctx).Community

	profanity := d.profanityFilter.Check(req.Title, req.Body)
	threads, superseded, err := d.findSimilar(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	dismissed := guardrail.DismissalValid(req.DismissedTitle, req.Title, cfg.DismissLengthDelta)

	return &model.CheckGuardrailsResponse{
		Profanity:      convertProfanity(profanity),
		SimilarThreads: threads,
		ShowSimilar:    len(threads) > 0 && !dismissed,
		CanSubmit:      guardrail.Ready(req.Title, profanity, cfg.MinReadyTitleLength),
		Superseded:     superseded,
	}, nil
}

func (d *guardrailDomain) GetSimilar(
	ctx context.Context, req *model.GetSimilarQuestionsRequest,
) (*model.GetSimilarQuestionsResponse, error) {
	threads, superseded, err := d.findSimilar(ctx, req.Q)
	if err != nil {
		return nil, err
	}

	return &model.GetSimilarQuestionsResponse{Threads: threads, Superseded: superseded}, nil
}

// findSimilar searches threads similar to the query after the debounce
// period. It returns superseded when a newer search of the same caller
// cancelled this one.
func (d *guardrailDomain) findSimilar(ctx context.Context, query string) ([]model.SimilarThread, bool, error) {
	cfg := xcontext.Configs(ctx).Community
	threads := []model.SimilarThread{}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < cfg.SimilarMinQueryLength {
		return threads, false, nil
	}

	err := d.debouncer.Do(ctx, callerKey(ctx), func(ctx context.Context) error {
		titles, err := d.questionRepo.GetRecentTitles(ctx, cfg.SimilarCandidateWindow)
		if err != nil {
			return err
		}

		candidates := make([]guardrail.Thread, 0, len(titles))
		for _, t := range titles {
			candidates = append(candidates, guardrail.Thread{ID: t.ID, Title: t.Title})
		}

		for _, s := range d.scorer.FindSimilar(query, candidates, cfg.SimilarMinScore, cfg.SimilarLimit) {
			threads = append(threads, model.SimilarThread{ID: s.ID, Title: s.Title, Score: s.Score})
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, guardrail.ErrSuperseded) {
			return []model.SimilarThread{}, true, nil
		}

		if errors.Is(err, context.Canceled) {
			return nil, false, errorx.New(errorx.Unavailable, "Request was cancelled")
		}

		xcontext.Logger(ctx).Errorf("Cannot find similar questions: %v", err)
		return nil, false, errorx.Unknown
	}

	return threads, false, nil
}

// callerKey identifies the caller whose searches supersede each other.
func callerKey(ctx context.Context) string {
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		return "user:" + userID
	}

	if r := xcontext.HTTPRequest(ctx); r != nil {
		return "addr:" + r.RemoteAddr
	}

	return "anonymous"
}

func convertProfanity(result guardrail.ProfanityResult) model.ProfanityResult {
	terms := result.FlaggedTerms
	if terms == nil {
		terms = []string{}
	}

	return model.ProfanityResult{
		Flagged:      result.Flagged,
		Reason:       result.Reason,
		Severity:     string(result.Severity),
		FlaggedTerms: terms,
	}
}
