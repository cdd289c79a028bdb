package badge

import (
	"context"

	"github.com/abi-lab/backend/internal/repository"
)

// Stats are the per-user numbers which badge criteria are evaluated against.
// They are always computed from the source rows, never cached.
type Stats struct {
	QuestionCount       int
	AnswerCount         int
	AcceptedAnswerCount int
	TotalUpvotes        int
	Reputation          int
	CurrentStreak       int
	LongestStreak       int
	VotesCast           int
	HelpfulVotes        int
	MaxQuestionScore    int
	MaxAnswerScore      int
}

type StatsLoader struct {
	profileRepo  repository.ProfileRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
}

func NewStatsLoader(
	profileRepo repository.ProfileRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	voteRepo repository.VoteRepository,
) *StatsLoader {
	return &StatsLoader{
		profileRepo:  profileRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
	}
}

func (l *StatsLoader) Load(ctx context.Context, userID string) (*Stats, error) {
	stats := &Stats{}

	profile, err := l.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Reputation = profile.Reputation
	stats.CurrentStreak = profile.CurrentStreak
	stats.LongestStreak = profile.LongestStreak

	questionCount, err := l.questionRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.QuestionCount = int(questionCount)

	answerCount, err := l.answerRepo.Count(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	stats.AnswerCount = int(answerCount)

	acceptedCount, err := l.answerRepo.Count(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	stats.AcceptedAnswerCount = int(acceptedCount)

	questionUpvotes, err := l.questionRepo.SumPositiveScore(ctx, userID)
	if err != nil {
		return nil, err
	}

	answerUpvotes, err := l.answerRepo.SumPositiveScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalUpvotes = questionUpvotes + answerUpvotes

	votesCast, err := l.voteRepo.Count(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	stats.VotesCast = int(votesCast)

	helpfulVotes, err := l.voteRepo.Count(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	stats.HelpfulVotes = int(helpfulVotes)

	if stats.MaxQuestionScore, err = l.questionRepo.MaxScore(ctx, userID); err != nil {
		return nil, err
	}

	if stats.MaxAnswerScore, err = l.answerRepo.MaxScore(ctx, userID); err != nil {
		return nil, err
	}

	return stats, nil
}
