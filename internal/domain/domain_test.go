package domain

import (
	"context"
	"testing"

	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/internal/domain/guardrail"
	"github.com/abi-lab/backend/internal/domain/reputation"
	"github.com/abi-lab/backend/internal/domain/vote"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

const (
	testQuestionBody = "What is the usual way to estimate the price of an aluminium sheet order?"
	testAnswerBody   = "Start from the LME price and add the conversion premium of the mill."
)

type testSuite struct {
	profileRepo       repository.ProfileRepository
	questionRepo      repository.QuestionRepository
	answerRepo        repository.AnswerRepository
	tagRepo           repository.TagRepository
	voteRepo          repository.VoteRepository
	reputationLogRepo repository.ReputationLogRepository
	badgeRepo         repository.BadgeRepository
	userBadgeRepo     repository.UserBadgeRepository

	publisher    *testutil.MockPublisher
	badgeManager *badge.Manager

	questionDomain  *questionDomain
	answerDomain    *answerDomain
	voteDomain      *voteDomain
	tagDomain       *tagDomain
	userDomain      *userDomain
	guardrailDomain *guardrailDomain
}

// newTestSuite wires every domain on the fixture database of ctx.
func newTestSuite(ctx context.Context) *testSuite {
	testutil.CreateFixtureDb(ctx)

	s := &testSuite{
		profileRepo:       repository.NewProfileRepository(),
		questionRepo:      repository.NewQuestionRepository(),
		answerRepo:        repository.NewAnswerRepository(),
		tagRepo:           repository.NewTagRepository(),
		voteRepo:          repository.NewVoteRepository(),
		reputationLogRepo: repository.NewReputationLogRepository(),
		badgeRepo:         repository.NewBadgeRepository(),
		userBadgeRepo:     repository.NewUserBadgeRepository(),
		publisher:         &testutil.MockPublisher{},
	}

	if err := badge.Seed(ctx, s.badgeRepo); err != nil {
		panic(err)
	}

	statsLoader := badge.NewStatsLoader(s.profileRepo, s.questionRepo, s.answerRepo, s.voteRepo)
	s.badgeManager = badge.NewManager(
		s.badgeRepo, s.userBadgeRepo, statsLoader, s.publisher, badge.DefaultScanners()...)
	badgeManager := s.badgeManager
	ledger := reputation.NewLedger(s.profileRepo, s.reputationLogRepo)
	profanityFilter := guardrail.NewProfanityFilter()

	s.questionDomain = NewQuestionDomain(
		s.questionRepo, s.answerRepo, s.tagRepo, s.profileRepo, s.voteRepo,
		badgeManager, profanityFilter, NewDirectViewCounter(s.questionRepo), s.publisher)
	s.answerDomain = NewAnswerDomain(
		s.questionRepo, s.answerRepo, s.tagRepo, s.profileRepo, s.voteRepo,
		ledger, badgeManager, profanityFilter, s.publisher)
	s.voteDomain = NewVoteDomain(
		vote.NewEngine(s.questionRepo, s.answerRepo, s.voteRepo, ledger), badgeManager, s.publisher)
	s.tagDomain = NewTagDomain(s.tagRepo, s.profileRepo)
	s.userDomain = NewUserDomain(
		s.profileRepo, s.questionRepo, s.answerRepo, s.reputationLogRepo, s.badgeRepo, s.userBadgeRepo)
	s.guardrailDomain = NewGuardrailDomain(ctx, s.questionRepo, profanityFilter)

	return s
}

func (s *testSuite) createQuestion(
	t *testing.T, ctx context.Context, userID, title string, tagIDs ...string,
) *model.Question {
	resp, err := s.questionDomain.Create(testutil.MockContextWithUserID(ctx, userID),
		&model.CreateQuestionRequest{Title: title, Body: testQuestionBody, TagIDs: tagIDs})
	require.NoError(t, err)
	return resp
}

func (s *testSuite) createAnswer(t *testing.T, ctx context.Context, userID, questionID string) *model.Answer {
	resp, err := s.answerDomain.Create(testutil.MockContextWithUserID(ctx, userID),
		&model.CreateAnswerRequest{QuestionID: questionID, Body: testAnswerBody})
	require.NoError(t, err)
	return resp
}

func (s *testSuite) reputation(t *testing.T, ctx context.Context, userID string) int {
	profile, err := s.profileRepo.Get(ctx, userID)
	require.NoError(t, err)
	return profile.Reputation
}

func (s *testSuite) tagCounts(t *testing.T, ctx context.Context) map[string]int {
	tags, err := s.tagRepo.GetAll(ctx)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, tag := range tags {
		counts[tag.ID] = tag.QuestionCount
	}

	return counts
}
